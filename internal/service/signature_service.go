package service

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// HMACSignatureService implements ports.SignatureService with HMAC-SHA512,
// the scheme Paystack uses for x-paystack-signature.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA512 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign returns the lowercase hex HMAC-SHA512 of payload.
func (s *HMACSignatureService) Sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time. An empty secret or signature never
// verifies.
func (s *HMACSignatureService) Verify(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := s.Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
