package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSigner computes and checks hex encoded HMAC-SHA256 digests.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner builds HMACSigner with provided shared secret.
func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

// Sign returns hex(HMAC_SHA256(secret, message)).
func (s *HMACSigner) Sign(message []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches message. An empty secret or
// signature never verifies.
func (s *HMACSigner) Verify(message []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}
	expected := s.Sign(message)
	return hmac.Equal([]byte(expected), []byte(signature))
}
