package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// FieldCipher seals individual column values with AES-256-GCM. A cipher
// built from an empty key is disabled: Seal returns nil and the caller keeps
// the plaintext column instead.
type FieldCipher struct {
	aead cipher.AEAD
}

func NewFieldCipher(key string) (*FieldCipher, error) {
	if key == "" {
		return &FieldCipher{}, nil
	}
	raw, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(raw))
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldCipher{aead: aead}, nil
}

func (c *FieldCipher) Enabled() bool {
	return c != nil && c.aead != nil
}

// Seal returns nonce||ciphertext, or nil for an empty value or a disabled
// cipher.
func (c *FieldCipher) Seal(value string) ([]byte, error) {
	if !c.Enabled() || value == "" {
		return nil, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, []byte(value), nil), nil
}

func (c *FieldCipher) Open(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if !c.Enabled() {
		return "", errors.New("field cipher is not configured")
	}
	size := c.aead.NonceSize()
	if len(sealed) < size {
		return "", ErrCiphertextTooShort
	}
	plain, err := c.aead.Open(nil, sealed[:size], sealed[size:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// OpenOr prefers the sealed column and falls back to plain when there is
// nothing sealed or it cannot be opened (rows written before a key was set).
func (c *FieldCipher) OpenOr(sealed []byte, plain string) string {
	if len(sealed) == 0 || !c.Enabled() {
		return plain
	}
	value, err := c.Open(sealed)
	if err != nil {
		return plain
	}
	return value
}

func decodeKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	if len(raw) == 32 {
		return []byte(raw), nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
