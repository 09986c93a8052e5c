// Package client is a typed HTTP client for the Zyra API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds calls when no http.Client is supplied
	DefaultTimeout = 120 * time.Second
	apiPrefix      = "/api/v1"
)

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("zyra api: %d %s", e.StatusCode, msg)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken authenticates every request with a bearer token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to one Zyra server
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for baseURL, e.g. http://localhost:8080
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken switches the bearer token used by later calls
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token
func (c *Client) Token() string { return c.token }

// Register creates an account
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login signs in and stores the returned token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Logout clears the server cookie and forgets the local token
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Session returns the signed-in user
func (c *Client) Session(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListCanvases returns the caller's canvases, newest first
func (c *Client) ListCanvases(ctx context.Context) ([]Canvas, error) {
	var out []Canvas
	if err := c.do(ctx, http.MethodGet, "/canvases", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCanvas creates a canvas owned by the caller
func (c *Client) CreateCanvas(ctx context.Context, in CanvasInput) (*Canvas, error) {
	var out Canvas
	if err := c.do(ctx, http.MethodPost, "/canvases", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCanvas loads a canvas with its notes, messages and PDFs
func (c *Client) GetCanvas(ctx context.Context, canvasID string) (*CanvasData, error) {
	var out CanvasData
	if err := c.do(ctx, http.MethodGet, "/canvases/"+url.PathEscape(canvasID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCanvas applies a partial update
func (c *Client) UpdateCanvas(ctx context.Context, canvasID string, patch CanvasPatch) (*Canvas, error) {
	var out Canvas
	if err := c.do(ctx, http.MethodPatch, "/canvases/"+url.PathEscape(canvasID), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCanvas removes a canvas and everything attached to it
func (c *Client) DeleteCanvas(ctx context.Context, canvasID string) error {
	return c.do(ctx, http.MethodDelete, "/canvases/"+url.PathEscape(canvasID), nil, nil, nil)
}

// ListNotes returns every note on a canvas
func (c *Client) ListNotes(ctx context.Context, canvasID string) ([]Note, error) {
	var out []Note
	query := url.Values{"canvasId": {canvasID}}
	if err := c.do(ctx, http.MethodGet, "/notes", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type noteBody struct {
	CanvasID string `json:"canvasId"`
	NoteID   string `json:"noteId"`
	Content  string `json:"content,omitempty"`
}

// CreateNote stores the text of a note node
func (c *Client) CreateNote(ctx context.Context, canvasID, noteID, content string) (*Note, error) {
	var out Note
	body := noteBody{CanvasID: canvasID, NoteID: noteID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/notes", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote replaces the text of a note
func (c *Client) UpdateNote(ctx context.Context, canvasID, noteID, content string) (*Note, error) {
	var out Note
	body := noteBody{CanvasID: canvasID, NoteID: noteID, Content: content}
	if err := c.do(ctx, http.MethodPatch, "/notes", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote removes a note
func (c *Client) DeleteNote(ctx context.Context, canvasID, noteID string) error {
	body := noteBody{CanvasID: canvasID, NoteID: noteID}
	return c.do(ctx, http.MethodDelete, "/notes", nil, body, nil)
}

func messagesPath(canvasID string) string {
	return "/canvases/" + url.PathEscape(canvasID) + "/messages"
}

// ListMessages returns a chat block's conversation, oldest first. An empty
// blockID lists the whole canvas.
func (c *Client) ListMessages(ctx context.Context, canvasID, blockID string) ([]Message, error) {
	var out []Message
	var query url.Values
	if blockID != "" {
		query = url.Values{"blockId": {blockID}}
	}
	if err := c.do(ctx, http.MethodGet, messagesPath(canvasID), query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMessage appends a turn to a chat block
func (c *Client) CreateMessage(ctx context.Context, canvasID, blockID, role, content string) (*Message, error) {
	var out Message
	body := map[string]string{"blockId": blockID, "role": role, "content": content}
	if err := c.do(ctx, http.MethodPost, messagesPath(canvasID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMessage removes one message
func (c *Client) DeleteMessage(ctx context.Context, canvasID, messageID string) (*MessagesDeleted, error) {
	return c.deleteMessages(ctx, canvasID, map[string]string{"messageId": messageID})
}

// DeleteBlockMessages clears a chat block's conversation
func (c *Client) DeleteBlockMessages(ctx context.Context, canvasID, blockID string) (*MessagesDeleted, error) {
	return c.deleteMessages(ctx, canvasID, map[string]string{"blockId": blockID})
}

func (c *Client) deleteMessages(ctx context.Context, canvasID string, body map[string]string) (*MessagesDeleted, error) {
	var out MessagesDeleted
	if err := c.do(ctx, http.MethodDelete, messagesPath(canvasID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPDF sends a document for a pdf node. The part is declared as
// application/pdf; the server still sniffs the content.
func (c *Client) UploadPDF(ctx context.Context, canvasID, blockID, fileName string, content io.Reader) (*PDF, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("canvasId", canvasID); err != nil {
		return nil, err
	}
	if err := mw.WriteField("blockId", blockID); err != nil {
		return nil, err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/pdfs", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out PDF
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePDF removes the document attached to a block
func (c *Client) DeletePDF(ctx context.Context, canvasID, blockID string) error {
	body := map[string]string{"canvasId": canvasID, "blockId": blockID}
	return c.do(ctx, http.MethodDelete, "/pdfs", nil, body, nil)
}

// Chat asks the assistant for a reply to messages given context
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, contextText string) (string, error) {
	if messages == nil {
		messages = []ChatMessage{}
	}
	body := struct {
		Messages []ChatMessage `json:"messages"`
		Context  string        `json:"context"`
	}{messages, contextText}

	var out struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat", nil, body, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(raw) > 0 && json.Unmarshal(raw, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
