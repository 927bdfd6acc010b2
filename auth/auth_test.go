package auth

import (
	"chat-notify/errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := []byte("webhook-secret")
	body := []byte(`{"metadata":{"event_type":"v1.user_left_room"},"payload":{}}`)
	valid := Sign(body, secret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		want      bool
	}{
		{"Exact signature", body, valid, true},
		{"Uppercase hex", body, strings.ToUpper(valid), false},
		{"Surrounding spaces", body, " " + valid + " ", false},
		{"Missing header", body, "", false},
		{"Not hex", body, "zz-not-hex", false},
		{"Signature of another secret", body, Sign(body, []byte("other")), false},
		{"One byte of the body changed", []byte(`{"metadata":{"event_type":"v1.user_left_room"},"payload":{ }}`), valid, false},
		{"Truncated signature", body, valid[:20], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, VerifySignature(tt.body, tt.signature, secret))
		})
	}
}

func TestVerifySignature_AnySignatureByteChanged(t *testing.T) {
	req := require.New(t)
	secret := []byte("webhook-secret")
	body := []byte(`{"metadata":{"event_type":"v1.messages_created"},"payload":{}}`)
	valid := Sign(body, secret)
	req.True(VerifySignature(body, valid, secret))

	// Every position replaced with every other byte value
	for i := 0; i < len(valid); i++ {
		for b := 0; b < 256; b++ {
			if byte(b) == valid[i] {
				continue
			}
			mutated := []byte(valid)
			mutated[i] = byte(b)
			req.False(VerifySignature(body, string(mutated), secret), "position %d, byte %#x", i, b)
		}
	}
}

func TestVerifySignature_AnyBodyByteChanged(t *testing.T) {
	req := require.New(t)
	secret := []byte("webhook-secret")
	body := []byte(`{"metadata":{"event_type":"v1.user_left_room"},"payload":{"room_id":"r1"}}`)
	valid := Sign(body, secret)

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		req.False(VerifySignature(mutated, valid, secret), "position %d", i)
	}
}

func TestSign_KnownVector(t *testing.T) {
	// RFC 2202 test case 2
	require.Equal(t, "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79",
		Sign([]byte("what do ya want for nothing?"), []byte("Jefe")))
}

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		key     string
		wantErr bool
	}{
		{"Valid", "v1:us1:instance-1", "key-1:averysecretvalue", false},
		{"Locator without version", "us1:instance-1", "key-1:averysecretvalue", true},
		{"Key without separator", "v1:us1:instance-1", "averysecretvalue", true},
		{"Secret too short", "v1:us1:instance-1", "key-1:short", true},
		{"Empty instance", "v1:us1:", "key-1:averysecretvalue", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credentials, err := ParseCredentials(tt.locator, tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "instance-1", credentials.InstanceID)
			require.Equal(t, "key-1", credentials.KeyID)
		})
	}
}

func TestTokenIssuer_UserToken(t *testing.T) {
	req := require.New(t)
	credentials, err := ParseCredentials("v1:us1:instance-1", "key-1:averysecretvalue")
	req.NoError(err)
	issuer := NewTokenIssuer(credentials, time.Hour)

	// When a token is issued for alice
	token, err := issuer.IssueUserToken("alice")
	req.NoError(err)
	req.Equal("bearer", token.TokenType)
	req.Equal(int64(3600), token.ExpiresIn)

	// Then it carries the chat service claims
	claims, err := issuer.ValidateToken(token.AccessToken)
	req.NoError(err)
	req.Equal("alice", claims.Subject)
	req.Equal("instance-1", claims.Instance)
	req.Equal("api_keys/key-1", claims.Issuer)
	req.False(claims.SU)
}

func TestTokenIssuer_ServiceToken(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer(Credentials{InstanceID: "i", KeyID: "k", Secret: "averysecretvalue"}, time.Minute)

	token, err := issuer.IssueServiceToken()
	req.NoError(err)

	claims, err := issuer.ValidateToken(token.AccessToken)
	req.NoError(err)
	req.True(claims.SU)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer(Credentials{InstanceID: "i", KeyID: "k", Secret: "averysecretvalue"}, time.Minute)

	// Missing user id
	_, err := issuer.IssueUserToken("")
	req.ErrorIs(err, errors.ErrMissingUserID)

	// Expired token
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.IssueUserToken("alice")
	req.NoError(err)
	issuer.now = time.Now
	_, err = issuer.ValidateToken(token.AccessToken)
	req.ErrorIs(err, errors.ErrInvalidToken)

	// Token signed by another secret
	other := NewTokenIssuer(Credentials{InstanceID: "i", KeyID: "k", Secret: "anothersecretvalue"}, time.Minute)
	token, err = other.IssueUserToken("alice")
	req.NoError(err)
	_, err = issuer.ValidateToken(token.AccessToken)
	req.ErrorIs(err, errors.ErrInvalidToken)
}
