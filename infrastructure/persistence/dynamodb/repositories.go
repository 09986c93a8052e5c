package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// UserRepository implements ports.UserRepository
type UserRepository struct{ t *Table }

// Create writes the profile and the email claim in one transaction so a
// duplicate address fails atomically.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	profile, err := marshal(toUserItem(user))
	if err != nil {
		return err
	}
	claim, err := marshal(emailItem{
		PK:         emailPK(user.Email),
		SK:         entityEmail,
		EntityType: entityEmail,
		UserID:     user.ID,
	})
	if err != nil {
		return err
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}
	put := func(item map[string]types.AttributeValue) types.TransactWriteItem {
		return types.TransactWriteItem{Put: &types.Put{
			TableName:                 aws.String(r.t.name),
			Item:                      item,
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}}
	}

	_, err = r.t.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{put(claim), put(profile)},
	})
	if err := r.t.translate("CreateUser", err, "User already exists"); err != nil {
		return err
	}

	r.t.logger.Debug("User saved", zap.String("user_id", user.ID))
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	item, err := r.t.get(ctx, userPK(id), "PROFILE", "GetUser")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	var u userItem
	if err := unmarshal(item, &u); err != nil {
		return nil, err
	}
	return u.toEntity(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	item, err := r.t.get(ctx, emailPK(email), entityEmail, "GetUserByEmail")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	var claim emailItem
	if err := unmarshal(item, &claim); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, claim.UserID)
}

// CanvasRepository implements ports.CanvasRepository
type CanvasRepository struct{ t *Table }

func (r *CanvasRepository) Save(ctx context.Context, canvas *entities.Canvas) error {
	item, err := marshal(toCanvasItem(canvas))
	if err != nil {
		return err
	}
	if err := r.t.put(ctx, item, "SaveCanvas"); err != nil {
		return err
	}

	r.t.logger.Debug("Canvas saved",
		zap.String("canvas_id", canvas.ID),
		zap.Int("nodes_bytes", len(canvas.Nodes)),
		zap.Int("edges_bytes", len(canvas.Edges)),
	)
	return nil
}

func (r *CanvasRepository) GetByID(ctx context.Context, id string) (*entities.Canvas, error) {
	item, err := r.t.get(ctx, canvasPK(id), "METADATA", "GetCanvas")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("Canvas")
	}
	var c canvasItem
	if err := unmarshal(item, &c); err != nil {
		return nil, err
	}
	return c.toEntity(), nil
}

// ListByUser reads the owner index in descending creation order
func (r *CanvasRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Canvas, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
		And(expression.KeyBeginsWith(expression.Key("GSI1SK"), "CANVAS#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := r.t.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.t.name),
		IndexName:                 aws.String(r.t.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}, "ListCanvases")
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Canvas, 0, len(items))
	for _, item := range items {
		var c canvasItem
		if err := unmarshal(item, &c); err != nil {
			return nil, err
		}
		out = append(out, c.toEntity())
	}
	return out, nil
}

func (r *CanvasRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, canvasPK(id), "METADATA", "DeleteCanvas")
}

// NoteRepository implements ports.NoteRepository
type NoteRepository struct{ t *Table }

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	item, err := marshal(toNoteItem(note))
	if err != nil {
		return err
	}
	return r.t.putNew(ctx, item, "CreateNote", "Note already exists")
}

func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	if _, err := r.GetByID(ctx, note.CanvasID, note.ID); err != nil {
		return err
	}
	item, err := marshal(toNoteItem(note))
	if err != nil {
		return err
	}
	return r.t.put(ctx, item, "UpdateNote")
}

func (r *NoteRepository) GetByID(ctx context.Context, canvasID, noteID string) (*entities.Note, error) {
	item, err := r.t.get(ctx, canvasPK(canvasID), noteSK(noteID), "GetNote")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("Note")
	}
	var n noteItem
	if err := unmarshal(item, &n); err != nil {
		return nil, err
	}
	return n.toEntity(), nil
}

func (r *NoteRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Note, error) {
	items, err := r.t.queryPrefix(ctx, canvasPK(canvasID), notePrefix(), "ListNotes")
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Note, 0, len(items))
	for _, item := range items {
		var n noteItem
		if err := unmarshal(item, &n); err != nil {
			return nil, err
		}
		out = append(out, n.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *NoteRepository) Delete(ctx context.Context, canvasID, noteID string) error {
	return r.t.delete(ctx, canvasPK(canvasID), noteSK(noteID), "DeleteNote")
}

func (r *NoteRepository) DeleteByCanvas(ctx context.Context, canvasID string) (int, error) {
	items, err := r.t.queryPrefix(ctx, canvasPK(canvasID), notePrefix(), "DeleteNotes")
	if err != nil {
		return 0, err
	}
	return r.t.deleteItems(ctx, items, "DeleteNotes")
}

// MessageRepository implements ports.MessageRepository. Sort keys embed the
// block and the creation time, so a block's conversation is one range read.
type MessageRepository struct{ t *Table }

func (r *MessageRepository) Create(ctx context.Context, message *entities.Message) error {
	item, err := marshal(toMessageItem(message))
	if err != nil {
		return err
	}
	return r.t.putNew(ctx, item, "CreateMessage", "Message already exists")
}

func (r *MessageRepository) GetByID(ctx context.Context, canvasID, messageID string) (*entities.Message, error) {
	msgs, err := r.list(ctx, canvasID, msgPrefix(), "GetMessage")
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		if m.ID == messageID {
			return m, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("Message")
}

func (r *MessageRepository) ListByBlock(ctx context.Context, canvasID, blockID string) ([]*entities.Message, error) {
	return r.list(ctx, canvasID, msgBlockPrefix(blockID), "ListBlockMessages")
}

func (r *MessageRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Message, error) {
	msgs, err := r.list(ctx, canvasID, msgPrefix(), "ListMessages")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

func (r *MessageRepository) list(ctx context.Context, canvasID, prefix, op string) ([]*entities.Message, error) {
	items, err := r.t.queryPrefix(ctx, canvasPK(canvasID), prefix, op)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Message, 0, len(items))
	for _, item := range items {
		var m messageItem
		if err := unmarshal(item, &m); err != nil {
			return nil, err
		}
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *MessageRepository) Delete(ctx context.Context, canvasID, messageID string) error {
	m, err := r.GetByID(ctx, canvasID, messageID)
	if pkgerrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.t.delete(ctx, canvasPK(canvasID), msgSK(m.BlockID, m.CreatedAt, m.ID), "DeleteMessage")
}

func (r *MessageRepository) DeleteByBlock(ctx context.Context, canvasID, blockID string) (int, error) {
	items, err := r.t.queryPrefix(ctx, canvasPK(canvasID), msgBlockPrefix(blockID), "DeleteBlockMessages")
	if err != nil {
		return 0, err
	}
	return r.t.deleteItems(ctx, items, "DeleteBlockMessages")
}

func (r *MessageRepository) DeleteByCanvas(ctx context.Context, canvasID string) (int, error) {
	items, err := r.t.queryPrefix(ctx, canvasPK(canvasID), msgPrefix(), "DeleteMessages")
	if err != nil {
		return 0, err
	}
	return r.t.deleteItems(ctx, items, "DeleteMessages")
}

// PDFRepository implements ports.PDFRepository. Each block holds at most one
// PDF, enforced by the PDF#<blockId> sort key.
type PDFRepository struct{ t *Table }

func (r *PDFRepository) Create(ctx context.Context, pdf *entities.PDF) error {
	item, err := marshal(toPDFItem(pdf))
	if err != nil {
		return err
	}
	return r.t.putNew(ctx, item, "CreatePDF", "PDF already exists for block")
}

func (r *PDFRepository) GetByBlock(ctx context.Context, canvasID, blockID string) (*entities.PDF, error) {
	item, err := r.t.get(ctx, canvasPK(canvasID), pdfSK(blockID), "GetPDF")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError("PDF")
	}
	var p pdfItem
	if err := unmarshal(item, &p); err != nil {
		return nil, err
	}
	return p.toEntity(), nil
}

func (r *PDFRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.PDF, error) {
	items, err := r.t.queryPrefix(ctx, canvasPK(canvasID), pdfPrefix(), "ListPDFs")
	if err != nil {
		return nil, err
	}

	out := make([]*entities.PDF, 0, len(items))
	for _, item := range items {
		var p pdfItem
		if err := unmarshal(item, &p); err != nil {
			return nil, err
		}
		out = append(out, p.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PDFRepository) Delete(ctx context.Context, canvasID, pdfID string) error {
	pdfs, err := r.ListByCanvas(ctx, canvasID)
	if err != nil {
		return err
	}
	for _, p := range pdfs {
		if p.ID == pdfID {
			return r.t.delete(ctx, canvasPK(canvasID), pdfSK(p.BlockID), "DeletePDF")
		}
	}
	return nil
}
