package dynamodb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/core/valueobjects"
)

const (
	entityUser   = "USER"
	entityEmail  = "EMAIL"
	entityCanvas = "CANVAS"
	entityNote   = "NOTE"
	entityMsg    = "MESSAGE"
	entityPDF    = "PDF"
)

type userItem struct {
	PK           string  `dynamodbav:"PK"`
	SK           string  `dynamodbav:"SK"`
	EntityType   string  `dynamodbav:"EntityType"`
	UserID       string  `dynamodbav:"UserID"`
	Email        string  `dynamodbav:"Email"`
	Name         string  `dynamodbav:"Name"`
	Image        string  `dynamodbav:"Image,omitempty"`
	PasswordHash *string `dynamodbav:"PasswordHash,omitempty"`
	CreatedAt    string  `dynamodbav:"CreatedAt"`
}

// emailItem reserves an address so two accounts cannot share it
type emailItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	UserID     string `dynamodbav:"UserID"`
}

type canvasItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	CanvasID   string `dynamodbav:"CanvasID"`
	UserID     string `dynamodbav:"UserID"`
	Title      string `dynamodbav:"Title"`
	Nodes      string `dynamodbav:"Nodes"`
	Edges      string `dynamodbav:"Edges"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

type noteItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	NoteID     string `dynamodbav:"NoteID"`
	CanvasID   string `dynamodbav:"CanvasID"`
	UserID     string `dynamodbav:"UserID"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

type messageItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	MessageID  string `dynamodbav:"MessageID"`
	CanvasID   string `dynamodbav:"CanvasID"`
	BlockID    string `dynamodbav:"BlockID"`
	Role       string `dynamodbav:"Role"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

type pdfItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	PDFID         string `dynamodbav:"PDFID"`
	CanvasID      string `dynamodbav:"CanvasID"`
	BlockID       string `dynamodbav:"BlockID"`
	FileName      string `dynamodbav:"FileName"`
	FileURL       string `dynamodbav:"FileURL"`
	StorageKey    string `dynamodbav:"StorageKey"`
	FileType      string `dynamodbav:"FileType"`
	FileSize      int64  `dynamodbav:"FileSize"`
	ExtractedText string `dynamodbav:"ExtractedText"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
}

func marshal(v interface{}) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return item, nil
}

func unmarshal(item map[string]types.AttributeValue, v interface{}) error {
	if err := attributevalue.UnmarshalMap(item, v); err != nil {
		return fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return nil
}

func toUserItem(u *entities.User) userItem {
	return userItem{
		PK:           userPK(u.ID),
		SK:           "PROFILE",
		EntityType:   entityUser,
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Image:        u.Image,
		PasswordHash: u.PasswordHash,
		CreatedAt:    formatTime(u.CreatedAt),
	}
}

func (i userItem) toEntity() *entities.User {
	return &entities.User{
		ID:           i.UserID,
		Email:        i.Email,
		Name:         i.Name,
		Image:        i.Image,
		PasswordHash: i.PasswordHash,
		CreatedAt:    parseTime(i.CreatedAt),
	}
}

func toCanvasItem(c *entities.Canvas) canvasItem {
	return canvasItem{
		PK:         canvasPK(c.ID),
		SK:         "METADATA",
		GSI1PK:     userPK(c.UserID),
		GSI1SK:     canvasOwnerSK(c.CreatedAt, c.ID),
		EntityType: entityCanvas,
		CanvasID:   c.ID,
		UserID:     c.UserID,
		Title:      c.Title,
		Nodes:      string(c.Nodes.Bytes()),
		Edges:      string(c.Edges.Bytes()),
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func (i canvasItem) toEntity() *entities.Canvas {
	return &entities.Canvas{
		ID:        i.CanvasID,
		Title:     i.Title,
		UserID:    i.UserID,
		Nodes:     valueobjects.GraphDocument(i.Nodes),
		Edges:     valueobjects.GraphDocument(i.Edges),
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
}

func toNoteItem(n *entities.Note) noteItem {
	return noteItem{
		PK:         canvasPK(n.CanvasID),
		SK:         noteSK(n.ID),
		EntityType: entityNote,
		NoteID:     n.ID,
		CanvasID:   n.CanvasID,
		UserID:     n.UserID,
		Content:    n.Content,
		CreatedAt:  formatTime(n.CreatedAt),
		UpdatedAt:  formatTime(n.UpdatedAt),
	}
}

func (i noteItem) toEntity() *entities.Note {
	return &entities.Note{
		ID:        i.NoteID,
		CanvasID:  i.CanvasID,
		UserID:    i.UserID,
		Content:   i.Content,
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
}

func toMessageItem(m *entities.Message) messageItem {
	return messageItem{
		PK:         canvasPK(m.CanvasID),
		SK:         msgSK(m.BlockID, m.CreatedAt, m.ID),
		EntityType: entityMsg,
		MessageID:  m.ID,
		CanvasID:   m.CanvasID,
		BlockID:    m.BlockID,
		Role:       string(m.Role),
		Content:    m.Content,
		CreatedAt:  formatTime(m.CreatedAt),
	}
}

func (i messageItem) toEntity() *entities.Message {
	return &entities.Message{
		ID:        i.MessageID,
		CanvasID:  i.CanvasID,
		BlockID:   i.BlockID,
		Role:      valueobjects.Role(i.Role),
		Content:   i.Content,
		CreatedAt: parseTime(i.CreatedAt),
	}
}

func toPDFItem(p *entities.PDF) pdfItem {
	return pdfItem{
		PK:            canvasPK(p.CanvasID),
		SK:            pdfSK(p.BlockID),
		EntityType:    entityPDF,
		PDFID:         p.ID,
		CanvasID:      p.CanvasID,
		BlockID:       p.BlockID,
		FileName:      p.FileName,
		FileURL:       p.FileURL,
		StorageKey:    p.StorageKey,
		FileType:      p.FileType,
		FileSize:      p.FileSize,
		ExtractedText: p.ExtractedText,
		CreatedAt:     formatTime(p.CreatedAt),
	}
}

func (i pdfItem) toEntity() *entities.PDF {
	return &entities.PDF{
		ID:            i.PDFID,
		CanvasID:      i.CanvasID,
		BlockID:       i.BlockID,
		FileName:      i.FileName,
		FileURL:       i.FileURL,
		StorageKey:    i.StorageKey,
		FileType:      i.FileType,
		FileSize:      i.FileSize,
		ExtractedText: i.ExtractedText,
		CreatedAt:     parseTime(i.CreatedAt),
	}
}
