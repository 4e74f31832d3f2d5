package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// VerifySignature checks the gateway HMAC over the exact raw request body.
// The body must be the unparsed bytes: re-serializing JSON does not round-trip
// and would never match the signature.
//
// Returns false for malformed or empty headers; it never panics and has no
// side effects. The caller decides the HTTP mapping.
func VerifySignature(rawBody []byte, signature string, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	sum := mac.Sum(nil)
	if len(expected) != len(sum) {
		return false
	}
	return subtle.ConstantTimeCompare(expected, sum) == 1
}

// SignBody computes the hex HMAC the gateway would send for rawBody. Used by
// tests and the mock delivery tooling.
func SignBody(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
