package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature headers set when a signing secret is configured.
const (
	HeaderEventID   = "X-Event-Id"
	HeaderTimestamp = "X-Event-Timestamp"
	HeaderSignature = "X-Signature"
)

// SignHex returns hex(HMAC-SHA256(secret, "<timestamp>.<body>")).
func SignHex(secret string, timestamp string, body []byte) string {
	msg := make([]byte, 0, len(timestamp)+1+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, '.')
	msg = append(msg, body...)

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHex reports whether signature matches the body and timestamp.
// It is the receiver-side counterpart of SignHex: this service only signs,
// and endpoints that import this package use VerifyHex to authenticate
// deliveries.
func VerifyHex(secret string, timestamp string, body []byte, signature string) bool {
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	expected, _ := hex.DecodeString(SignHex(secret, timestamp, body))
	return hmac.Equal(provided, expected)
}
