package services

import (
	"chat-notify/auth"
	"chat-notify/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *auth.TokenIssuer) {
	credentials := auth.Credentials{InstanceID: "instance", Cluster: "us1", KeyID: "key", Secret: "a-long-secret"}
	issuer := auth.NewTokenIssuer(credentials, time.Hour)
	return NewAuthService(issuer, logs.GetLoggerFromLevel(slog.LevelDebug)), issuer
}

func TestAuthService_IssueToken(t *testing.T) {
	req := require.New(t)
	svc, issuer := newAuthService()

	token, err := svc.IssueToken(" alice ")

	req.NoError(err)
	req.Equal("bearer", token.TokenType)
	req.Equal(int64(3600), token.ExpiresIn)
	claims, err := issuer.ValidateToken(token.AccessToken)
	req.NoError(err)
	req.Equal("alice", claims.Subject)
	req.False(claims.SU)
}

func TestAuthService_MissingUserID(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.IssueToken("  ")
	require.ErrorIs(t, err, errors.ErrMissingUserID)
}
