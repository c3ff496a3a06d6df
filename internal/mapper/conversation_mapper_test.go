package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNormalizeAttachmentsBareString(t *testing.T) {
	got := NormalizeAttachments(datatypes.JSON(`"https://blob.example.com/photo.png"`))

	require.Len(t, got, 1)
	assert.Equal(t, "image", got[0].Type)
	assert.Equal(t, "https://blob.example.com/photo.png", got[0].URL)
	assert.Equal(t, "photo.png", got[0].Filename)
}

func TestNormalizeAttachmentsSingleObject(t *testing.T) {
	got := NormalizeAttachments(datatypes.JSON(`{"url":"https://blob.example.com/spec.pdf","filename":"spec.pdf"}`))

	require.Len(t, got, 1)
	// Missing type is inferred from the extension.
	assert.Equal(t, "pdf", got[0].Type)
	assert.Equal(t, "spec.pdf", got[0].Filename)
}

func TestNormalizeAttachmentsMixedArray(t *testing.T) {
	raw := datatypes.JSON(`[
		"https://blob.example.com/a.jpg",
		{"type":"pdf","url":"https://blob.example.com/b.pdf","filename":"b.pdf"},
		{"url":"https://blob.example.com/c.pdf?sig=abc"}
	]`)

	got := NormalizeAttachments(raw)

	require.Len(t, got, 3)
	assert.Equal(t, "image", got[0].Type)
	assert.Equal(t, "pdf", got[1].Type)
	// Query strings don't confuse type inference.
	assert.Equal(t, "pdf", got[2].Type)
}

func TestNormalizeAttachmentsDegenerateInputs(t *testing.T) {
	assert.Nil(t, NormalizeAttachments(nil))
	assert.Nil(t, NormalizeAttachments(datatypes.JSON(``)))
	assert.Nil(t, NormalizeAttachments(datatypes.JSON(`""`)))
	assert.Nil(t, NormalizeAttachments(datatypes.JSON(`[]`)))
	assert.Nil(t, NormalizeAttachments(datatypes.JSON(`42`)))
	assert.Nil(t, NormalizeAttachments(datatypes.JSON(`not json`)))
}
