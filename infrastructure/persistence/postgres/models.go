package postgres

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Labib591/zyra/domain/core/entities"
	"github.com/Labib591/zyra/domain/core/valueobjects"
)

type userModel struct {
	ID           string  `gorm:"type:text;primaryKey"`
	Email        string  `gorm:"type:text;not null;uniqueIndex"`
	Name         string  `gorm:"type:text;not null"`
	Image        string  `gorm:"type:text"`
	PasswordHash *string `gorm:"type:text"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type canvasModel struct {
	ID        string         `gorm:"type:text;primaryKey"`
	UserID    string         `gorm:"type:text;not null;index"`
	Title     string         `gorm:"type:varchar(200);not null"`
	Nodes     datatypes.JSON `gorm:"type:json;not null"`
	Edges     datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
}

func (canvasModel) TableName() string { return "canvases" }

type noteModel struct {
	ID        string `gorm:"type:text;primaryKey"`
	CanvasID  string `gorm:"type:text;primaryKey"`
	UserID    string `gorm:"type:text;not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (noteModel) TableName() string { return "notes" }

type messageModel struct {
	ID        string `gorm:"type:text;primaryKey"`
	CanvasID  string `gorm:"type:text;not null;index:idx_messages_block,priority:1"`
	BlockID   string `gorm:"type:text;not null;index:idx_messages_block,priority:2"`
	Role      string `gorm:"type:varchar(16);not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (messageModel) TableName() string { return "messages" }

type pdfModel struct {
	ID            string `gorm:"type:text;primaryKey"`
	CanvasID      string `gorm:"type:text;not null;uniqueIndex:idx_pdfs_block,priority:1"`
	BlockID       string `gorm:"type:text;not null;uniqueIndex:idx_pdfs_block,priority:2"`
	FileName      string `gorm:"type:text;not null"`
	FileURL       string `gorm:"type:text;not null"`
	StorageKey    string `gorm:"type:text;not null"`
	FileType      string `gorm:"type:varchar(64);not null"`
	FileSize      int64
	ExtractedText string `gorm:"type:text"`
	CreatedAt     time.Time
}

func (pdfModel) TableName() string { return "pdfs" }

func fromUser(u *entities.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Image:        u.Image,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *userModel) toEntity() *entities.User {
	return &entities.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		Image:        m.Image,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func fromCanvas(c *entities.Canvas) *canvasModel {
	return &canvasModel{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		Nodes:     datatypes.JSON(c.Nodes.Bytes()),
		Edges:     datatypes.JSON(c.Edges.Bytes()),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *canvasModel) toEntity() *entities.Canvas {
	return &entities.Canvas{
		ID:        m.ID,
		Title:     m.Title,
		UserID:    m.UserID,
		Nodes:     valueobjects.GraphDocument(m.Nodes),
		Edges:     valueobjects.GraphDocument(m.Edges),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func fromNote(n *entities.Note) *noteModel {
	return &noteModel{
		ID:        n.ID,
		CanvasID:  n.CanvasID,
		UserID:    n.UserID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (m *noteModel) toEntity() *entities.Note {
	return &entities.Note{
		ID:        m.ID,
		CanvasID:  m.CanvasID,
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func fromMessage(msg *entities.Message) *messageModel {
	return &messageModel{
		ID:        msg.ID,
		CanvasID:  msg.CanvasID,
		BlockID:   msg.BlockID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *messageModel) toEntity() *entities.Message {
	return &entities.Message{
		ID:        m.ID,
		CanvasID:  m.CanvasID,
		BlockID:   m.BlockID,
		Role:      valueobjects.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func fromPDF(p *entities.PDF) *pdfModel {
	return &pdfModel{
		ID:            p.ID,
		CanvasID:      p.CanvasID,
		BlockID:       p.BlockID,
		FileName:      p.FileName,
		FileURL:       p.FileURL,
		StorageKey:    p.StorageKey,
		FileType:      p.FileType,
		FileSize:      p.FileSize,
		ExtractedText: p.ExtractedText,
		CreatedAt:     p.CreatedAt,
	}
}

func (m *pdfModel) toEntity() *entities.PDF {
	return &entities.PDF{
		ID:            m.ID,
		CanvasID:      m.CanvasID,
		BlockID:       m.BlockID,
		FileName:      m.FileName,
		FileURL:       m.FileURL,
		StorageKey:    m.StorageKey,
		FileType:      m.FileType,
		FileSize:      m.FileSize,
		ExtractedText: m.ExtractedText,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}
