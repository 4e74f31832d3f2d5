package webhook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySignature_RoundTrip(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	secret := "whsec_test_123"

	sig := SignBody(body, secret)
	require.True(t, VerifySignature(body, sig, secret))
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	body := []byte(`{"event":"payment.captured","amount":50000}`)
	secret := "whsec_test_123"
	sig := SignBody(body, secret)

	tampered := []byte(`{"event":"payment.captured","amount":99999}`)
	require.False(t, VerifySignature(tampered, sig, secret))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte(`{"event":"order.paid"}`)
	sig := SignBody(body, "secret-a")
	require.False(t, VerifySignature(body, sig, "secret-b"))
}

func TestVerifySignature_MalformedSignature(t *testing.T) {
	body := []byte(`{}`)
	secret := "whsec_test_123"

	require.False(t, VerifySignature(body, "not-hex", secret))
	require.False(t, VerifySignature(body, "abcd", secret)) // valid hex, wrong length
	require.False(t, VerifySignature(body, "", secret))
	require.False(t, VerifySignature(body, SignBody(body, secret), ""))
}

func TestVerifySignature_EmptyBody(t *testing.T) {
	secret := "whsec_test_123"
	sig := SignBody(nil, secret)
	require.True(t, VerifySignature(nil, sig, secret))
	require.True(t, VerifySignature([]byte{}, sig, secret))
}
