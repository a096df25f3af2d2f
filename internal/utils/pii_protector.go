package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// piiProtectionContext versions the protection context. Values sealed under
// one context can only be opened under the same context; bumping the version
// (or rotating the key) invalidates prior ciphertexts explicitly.
const piiProtectionContext = "payment-gateway.pii.protection-v1"

const maskRune = '*'

// PIIProtector encrypts and decrypts sensitive fields with an AEAD
// (XChaCha20-Poly1305) keyed by process-wide key material. It never logs
// plaintext or ciphertext.
type PIIProtector struct {
	key     []byte
	context string
}

// NewPIIProtector creates a protector from 32 bytes of key material.
func NewPIIProtector(key []byte) (*PIIProtector, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("pii protection key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &PIIProtector{key: key, context: piiProtectionContext}, nil
}

// Protect encrypts plaintext and returns a URL-safe base64 ciphertext with
// the nonce prepended. The protection context is bound as associated data.
func (p *PIIProtector) Protect(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(p.key)
	if err != nil {
		return "", fmt.Errorf("failed to initialise cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), []byte(p.context))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Unprotect reverses Protect. It fails if the ciphertext was produced under
// a different key or protection context, or has been tampered with.
func (p *PIIProtector) Unprotect(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext encoding: %w", err)
	}

	aead, err := chacha20poly1305.NewX(p.key)
	if err != nil {
		return "", fmt.Errorf("failed to initialise cipher: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, []byte(p.context))
	if err != nil {
		return "", fmt.Errorf("failed to unprotect value: %w", err)
	}
	return string(plaintext), nil
}

// Mask replaces all but the last showLast characters with the mask character.
// Inputs no longer than showLast are fully masked. Display only, never storage.
func (p *PIIProtector) Mask(plaintext string, showLast int) string {
	if plaintext == "" {
		return ""
	}
	runes := []rune(plaintext)
	if len(runes) <= showLast {
		return strings.Repeat(string(maskRune), len(runes))
	}
	masked := len(runes) - showLast
	return strings.Repeat(string(maskRune), masked) + string(runes[masked:])
}
