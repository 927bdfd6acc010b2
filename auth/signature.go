package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// SignatureHeader carries the hex HMAC-SHA1 of the raw webhook body.
const SignatureHeader = "webhook-signature"

// Sign returns the hex encoded HMAC-SHA1 of body keyed with secret.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha1.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the provided signature against the exact raw bytes of the body.
// The signature must be the lowercase hex digest, byte for byte. The comparison is constant time.
func VerifySignature(body []byte, signature string, secret []byte) bool {
	if signature == "" {
		return false
	}
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
