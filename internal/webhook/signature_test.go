package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignHex(t *testing.T) {
	body := []byte(`{"message":"hi"}`)

	sig := SignHex("secret", "1700000000", body)
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, SignHex("secret", "1700000000", body), "deterministic")
	assert.NotEqual(t, sig, SignHex("other", "1700000000", body))
	assert.NotEqual(t, sig, SignHex("secret", "1700000001", body))

	assert.True(t, VerifyHex("secret", "1700000000", body, sig))
	assert.False(t, VerifyHex("secret", "1700000000", []byte(`{"message":"tampered"}`), sig))
	assert.False(t, VerifyHex("secret", "1700000000", body, "zz-not-hex"))
}
