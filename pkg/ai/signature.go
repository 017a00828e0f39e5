package ai

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyHMAC verifies a sha256 HMAC hex signature against payload and
// secret. A "sha256=" prefix on the signature is tolerated since some
// providers include it.
func VerifyHMAC(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	signatureHex = strings.TrimPrefix(signatureHex, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}

// SignHMAC computes the sha256 HMAC hex signature for a payload. Used by
// tests and by outbound calls that must sign their own bodies.
func SignHMAC(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
