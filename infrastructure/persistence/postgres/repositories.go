// Package postgres stores Zyra records in PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// Open connects to dsn. Driver errors are translated so unique violations
// surface as gorm.ErrDuplicatedKey.
func Open(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	logger.Info("Connected to PostgreSQL")
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&canvasModel{},
		&noteModel{},
		&messageModel{},
		&pdfModel{},
	)
}

// Store exposes one repository per record type over a shared connection
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store on db
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Canvases() *CanvasRepository { return &CanvasRepository{s} }
func (s *Store) Notes() *NoteRepository { return &NoteRepository{s} }
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s} }
func (s *Store) PDFs() *PDFRepository { return &PDFRepository{s} }

func (s *Store) with(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

func (s *Store) translate(op, resource string, err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.NewConflictError(conflictMsg).WithCause(err)
	default:
		s.logger.Error("Database operation failed", zap.String("operation", op), zap.Error(err))
		return pkgerrors.NewDatabaseError(op, err)
	}
}

// UserRepository implements ports.UserRepository
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	err := r.s.with(ctx).Create(fromUser(user)).Error
	return r.s.translate("CreateUser", "User", err, "User already exists")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var m userModel
	if err := r.s.with(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.s.translate("GetUser", "User", err, "")
	}
	return m.toEntity(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m userModel
	if err := r.s.with(ctx).First(&m, "email = ?", email).Error; err != nil {
		return nil, r.s.translate("GetUserByEmail", "User", err, "")
	}
	return m.toEntity(), nil
}

// CanvasRepository implements ports.CanvasRepository
type CanvasRepository struct{ s *Store }

func (r *CanvasRepository) Save(ctx context.Context, canvas *entities.Canvas) error {
	err := r.s.with(ctx).Save(fromCanvas(canvas)).Error
	return r.s.translate("SaveCanvas", "Canvas", err, "")
}

func (r *CanvasRepository) GetByID(ctx context.Context, id string) (*entities.Canvas, error) {
	var m canvasModel
	if err := r.s.with(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.s.translate("GetCanvas", "Canvas", err, "")
	}
	return m.toEntity(), nil
}

func (r *CanvasRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Canvas, error) {
	var rows []canvasModel
	err := r.s.with(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.s.translate("ListCanvases", "Canvas", err, "")
	}

	out := make([]*entities.Canvas, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *CanvasRepository) Delete(ctx context.Context, id string) error {
	err := r.s.with(ctx).Where("id = ?", id).Delete(&canvasModel{}).Error
	return r.s.translate("DeleteCanvas", "Canvas", err, "")
}

// NoteRepository implements ports.NoteRepository
type NoteRepository struct{ s *Store }

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	err := r.s.with(ctx).Create(fromNote(note)).Error
	return r.s.translate("CreateNote", "Note", err, "Note already exists")
}

func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	res := r.s.with(ctx).Model(&noteModel{}).
		Where("canvas_id = ? AND id = ?", note.CanvasID, note.ID).
		Updates(map[string]interface{}{
			"content":    note.Content,
			"updated_at": note.UpdatedAt,
		})
	if res.Error != nil {
		return r.s.translate("UpdateNote", "Note", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("Note")
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, canvasID, noteID string) (*entities.Note, error) {
	var m noteModel
	if err := r.s.with(ctx).First(&m, "canvas_id = ? AND id = ?", canvasID, noteID).Error; err != nil {
		return nil, r.s.translate("GetNote", "Note", err, "")
	}
	return m.toEntity(), nil
}

func (r *NoteRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Note, error) {
	var rows []noteModel
	err := r.s.with(ctx).
		Where("canvas_id = ?", canvasID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.s.translate("ListNotes", "Note", err, "")
	}

	out := make([]*entities.Note, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *NoteRepository) Delete(ctx context.Context, canvasID, noteID string) error {
	err := r.s.with(ctx).Where("canvas_id = ? AND id = ?", canvasID, noteID).Delete(&noteModel{}).Error
	return r.s.translate("DeleteNote", "Note", err, "")
}

func (r *NoteRepository) DeleteByCanvas(ctx context.Context, canvasID string) (int, error) {
	res := r.s.with(ctx).Where("canvas_id = ?", canvasID).Delete(&noteModel{})
	if res.Error != nil {
		return 0, r.s.translate("DeleteNotes", "Note", res.Error, "")
	}
	return int(res.RowsAffected), nil
}

// MessageRepository implements ports.MessageRepository
type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(ctx context.Context, message *entities.Message) error {
	err := r.s.with(ctx).Create(fromMessage(message)).Error
	return r.s.translate("CreateMessage", "Message", err, "Message already exists")
}

func (r *MessageRepository) GetByID(ctx context.Context, canvasID, messageID string) (*entities.Message, error) {
	var m messageModel
	if err := r.s.with(ctx).First(&m, "canvas_id = ? AND id = ?", canvasID, messageID).Error; err != nil {
		return nil, r.s.translate("GetMessage", "Message", err, "")
	}
	return m.toEntity(), nil
}

func (r *MessageRepository) ListByBlock(ctx context.Context, canvasID, blockID string) ([]*entities.Message, error) {
	return r.list(ctx, "ListBlockMessages", "canvas_id = ? AND block_id = ?", canvasID, blockID)
}

func (r *MessageRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.Message, error) {
	return r.list(ctx, "ListMessages", "canvas_id = ?", canvasID)
}

func (r *MessageRepository) list(ctx context.Context, op, where string, args ...interface{}) ([]*entities.Message, error) {
	var rows []messageModel
	if err := r.s.with(ctx).Where(where, args...).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.s.translate(op, "Message", err, "")
	}

	out := make([]*entities.Message, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *MessageRepository) Delete(ctx context.Context, canvasID, messageID string) error {
	err := r.s.with(ctx).Where("canvas_id = ? AND id = ?", canvasID, messageID).Delete(&messageModel{}).Error
	return r.s.translate("DeleteMessage", "Message", err, "")
}

func (r *MessageRepository) DeleteByBlock(ctx context.Context, canvasID, blockID string) (int, error) {
	res := r.s.with(ctx).Where("canvas_id = ? AND block_id = ?", canvasID, blockID).Delete(&messageModel{})
	if res.Error != nil {
		return 0, r.s.translate("DeleteBlockMessages", "Message", res.Error, "")
	}
	return int(res.RowsAffected), nil
}

func (r *MessageRepository) DeleteByCanvas(ctx context.Context, canvasID string) (int, error) {
	res := r.s.with(ctx).Where("canvas_id = ?", canvasID).Delete(&messageModel{})
	if res.Error != nil {
		return 0, r.s.translate("DeleteMessages", "Message", res.Error, "")
	}
	return int(res.RowsAffected), nil
}

// PDFRepository implements ports.PDFRepository
type PDFRepository struct{ s *Store }

func (r *PDFRepository) Create(ctx context.Context, pdf *entities.PDF) error {
	err := r.s.with(ctx).Create(fromPDF(pdf)).Error
	return r.s.translate("CreatePDF", "PDF", err, "PDF already exists for block")
}

func (r *PDFRepository) GetByBlock(ctx context.Context, canvasID, blockID string) (*entities.PDF, error) {
	var m pdfModel
	if err := r.s.with(ctx).First(&m, "canvas_id = ? AND block_id = ?", canvasID, blockID).Error; err != nil {
		return nil, r.s.translate("GetPDF", "PDF", err, "")
	}
	return m.toEntity(), nil
}

func (r *PDFRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*entities.PDF, error) {
	var rows []pdfModel
	if err := r.s.with(ctx).Where("canvas_id = ?", canvasID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.s.translate("ListPDFs", "PDF", err, "")
	}

	out := make([]*entities.PDF, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *PDFRepository) Delete(ctx context.Context, canvasID, pdfID string) error {
	err := r.s.with(ctx).Where("canvas_id = ? AND id = ?", canvasID, pdfID).Delete(&pdfModel{}).Error
	return r.s.translate("DeletePDF", "PDF", err, "")
}
