// Package auth checks the shared admin secret.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/Rishad-007/BRUDF/internal/config"
	"golang.org/x/crypto/bcrypt"
)

type Verifier interface {
	Verify(ctx context.Context, secret string) bool
}

// SharedSecret compares against a plaintext secret in constant time.
type SharedSecret struct {
	secret []byte
}

func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{secret: []byte(secret)}
}

func (s *SharedSecret) Verify(_ context.Context, secret string) bool {
	if secret == "" || len(s.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), s.secret) == 1
}

// BcryptHash checks the secret against a bcrypt hash.
type BcryptHash struct {
	hash []byte
}

func NewBcryptHash(hash string) (*BcryptHash, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &BcryptHash{hash: []byte(hash)}, nil
}

func (b *BcryptHash) Verify(_ context.Context, secret string) bool {
	if secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(b.hash, []byte(secret)) == nil
}

// DenyAll rejects every secret.
type DenyAll struct{}

func (DenyAll) Verify(context.Context, string) bool {
	return false
}

// FromConfig picks the hash when set, then the plaintext secret, then DenyAll.
func FromConfig(cfg config.AdminConfig) (Verifier, error) {
	if hash := strings.TrimSpace(cfg.PasswordHash); hash != "" {
		return NewBcryptHash(hash)
	}
	if cfg.Password != "" {
		return NewSharedSecret(cfg.Password), nil
	}
	return DenyAll{}, nil
}
