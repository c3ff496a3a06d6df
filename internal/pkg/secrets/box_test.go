package secrets

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewBox(strings.Repeat("k", 32))
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("sk-test-1234567890"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "sk-test")

	opened, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-1234567890", string(opened))
}

func TestNewBoxAcceptsBase64Key(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 32)))
	_, err := NewBox(encoded)
	assert.NoError(t, err)
}

func TestNewBoxRejectsShortKey(t *testing.T) {
	_, err := NewBox("too-short")
	assert.Error(t, err)
}

func TestOpenRejectsTamperedBlob(t *testing.T) {
	box, err := NewBox(strings.Repeat("k", 32))
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("secret"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = box.Open(sealed)
	assert.Error(t, err)
}
