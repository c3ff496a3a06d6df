package secrets

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Box seals small secrets (provider API keys) with XChaCha20-Poly1305.
// The nonce is prepended to the ciphertext so a sealed blob is
// self-contained.
type Box struct {
	aead cipher.AEAD
}

// NewBox derives a box from a base64 or raw 32-byte secret.
func NewBox(secret string) (*Box, error) {
	key := []byte(secret)
	if len(key) != chacha20poly1305.KeySize {
		decoded, err := base64.StdEncoding.DecodeString(secret)
		if err != nil || len(decoded) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("key encryption secret must be %d bytes (raw or base64)", chacha20poly1305.KeySize)
		}
		key = decoded
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Box{aead: aead}, nil
}

func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (b *Box) Open(sealed []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	if len(sealed) < ns {
		return nil, fmt.Errorf("sealed blob too short")
	}
	return b.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
}
