package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Labib591/zyra/domain/core/entities"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

func TestUploadPDFCommand_Validate(t *testing.T) {
	valid := UploadPDFCommand{
		UserID: "u1", CanvasID: "c1", BlockID: "p1", FileName: "a.pdf",
		ContentType: entities.PDFMimeType, Data: []byte("%PDF-1.4"),
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("declared type must be pdf", func(t *testing.T) {
		cmd := valid
		cmd.ContentType = "image/png"

		err := cmd.Validate()

		require.True(t, pkgerrors.IsValidation(err))
		assert.Contains(t, err.Error(), "File must be a PDF")
	})

	t.Run("exactly the limit is accepted", func(t *testing.T) {
		cmd := valid
		cmd.Data = bytes.Repeat([]byte("a"), int(entities.MaxPDFSize))

		assert.NoError(t, cmd.Validate())
	})

	t.Run("one byte over the limit", func(t *testing.T) {
		cmd := valid
		cmd.Data = bytes.Repeat([]byte("a"), int(entities.MaxPDFSize)+1)

		err := cmd.Validate()

		require.True(t, pkgerrors.IsValidation(err))
		assert.Contains(t, err.Error(), "File size must be less than 10MB")
	})

	t.Run("empty file", func(t *testing.T) {
		cmd := valid
		cmd.Data = nil

		assert.True(t, pkgerrors.IsValidation(cmd.Validate()))
	})
}

func TestDeleteMessagesCommand_Validate(t *testing.T) {
	err := DeleteMessagesCommand{UserID: "u1", CanvasID: "c1"}.Validate()
	require.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "messageId or blockId is required")

	assert.NoError(t, DeleteMessagesCommand{UserID: "u1", CanvasID: "c1", BlockID: "b1"}.Validate())
	assert.NoError(t, DeleteMessagesCommand{UserID: "u1", CanvasID: "c1", MessageID: "m1"}.Validate())
}

func TestCreateMessageCommand_Validate(t *testing.T) {
	assert.NoError(t, CreateMessageCommand{UserID: "u", CanvasID: "c", BlockID: "b", Role: "assistant", Content: "ok"}.Validate())
	assert.Error(t, CreateMessageCommand{UserID: "u", CanvasID: "c", BlockID: "b", Role: "system", Content: "ok"}.Validate())
	assert.Error(t, CreateMessageCommand{UserID: "u", CanvasID: "c", BlockID: "b", Role: "user", Content: "  "}.Validate())
}

func TestRegisterUserCommand_Validate(t *testing.T) {
	assert.NoError(t, RegisterUserCommand{Email: "a@b.co", Password: "longenough"}.Validate())
	assert.Error(t, RegisterUserCommand{Email: "not-an-email", Password: "longenough"}.Validate())
	assert.Error(t, RegisterUserCommand{Email: "a@b.co", Password: "short"}.Validate())
}

func TestUpdateCanvasCommand_Validate(t *testing.T) {
	assert.Error(t, UpdateCanvasCommand{UserID: "u1"}.Validate())
	assert.NoError(t, UpdateCanvasCommand{UserID: "u1", CanvasID: "c1"}.Validate())
}
