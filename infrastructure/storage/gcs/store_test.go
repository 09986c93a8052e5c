package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "zyra-pdfs/c1_p1_17.pdf", ObjectName("zyra-pdfs", "c1_p1_17"))
	assert.Equal(t, "c1_p1_17.pdf", ObjectName("", "c1_p1_17"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/zyra-bucket/zyra-pdfs/a%20b.pdf",
		PublicURL("zyra-bucket", "zyra-pdfs/a b.pdf"))
}
