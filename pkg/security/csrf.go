package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"io"

	"github.com/oarkflow/contact/pkg/contracts"
)

const (
	// CSRFTokenKey is the session storage key and the hidden form field name.
	CSRFTokenKey = "csrf_token"

	csrfTokenBytes = 32
)

// Tokens issues per-session CSRF tokens. Nothing on the server side rejects
// a replayed token unless Verify is called explicitly.
type Tokens struct {
	random io.Reader
}

func NewTokens() *Tokens {
	return &Tokens{random: rand.Reader}
}

// NewTokensWithReader draws token bytes from r instead of crypto/rand.
func NewTokensWithReader(r io.Reader) *Tokens {
	return &Tokens{random: r}
}

// Generate returns 32 random bytes as 64 lowercase hex characters.
func (t *Tokens) Generate() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := io.ReadFull(t.random, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreate returns the session token, creating and storing one on first
// access. When the store cannot be read or written the token is still
// returned, it just will not survive the request.
func (t *Tokens) GetOrCreate(store contracts.Storage) string {
	if token, err := store.GetItem(CSRFTokenKey); err == nil && token != "" {
		return token
	}
	return t.Rotate(store)
}

// Rotate replaces the session token with a fresh one.
func (t *Tokens) Rotate(store contracts.Storage) string {
	token, err := t.Generate()
	if err != nil {
		return ""
	}
	_ = store.SetItem(CSRFTokenKey, token)
	return token
}

// Verify reports whether submitted matches the stored session token.
func (t *Tokens) Verify(store contracts.Storage, submitted string) bool {
	token, err := store.GetItem(CSRFTokenKey)
	if err != nil || token == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) == 1
}
