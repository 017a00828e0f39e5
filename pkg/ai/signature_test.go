package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHMACRoundTrip(t *testing.T) {
	payload := []byte(`{"event":"done"}`)
	sig := SignHMAC("secret", payload)

	assert.True(t, VerifyHMAC("secret", payload, sig))
	assert.True(t, VerifyHMAC("secret", payload, "sha256="+sig))
}

func TestVerifyHMACRejects(t *testing.T) {
	payload := []byte(`{"event":"done"}`)
	sig := SignHMAC("secret", payload)

	assert.False(t, VerifyHMAC("other-secret", payload, sig))
	assert.False(t, VerifyHMAC("secret", []byte("tampered"), sig))
	assert.False(t, VerifyHMAC("secret", payload, ""))
	assert.False(t, VerifyHMAC("", payload, sig))
	assert.False(t, VerifyHMAC("secret", payload, "not-hex-at-all"))
}
