package services

import (
	"chat-notify/auth"
	"chat-notify/errors"
	"log/slog"
	"strings"
)

type IAuthService interface {
	IssueToken(userID string) (auth.Token, error)
}

// AuthService hands chat session tokens to the mobile clients.
type AuthService struct {
	issuer *auth.TokenIssuer
	log    *slog.Logger
}

func NewAuthService(issuer *auth.TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{issuer: issuer, log: log}
}

func (s *AuthService) IssueToken(userID string) (auth.Token, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return auth.Token{}, errors.ErrMissingUserID
	}
	token, err := s.issuer.IssueUserToken(userID)
	if err != nil {
		s.log.Error("Unable to issue session token", "user_id", userID, "error", err)
		return auth.Token{}, err
	}
	s.log.Debug("Session token issued", "user_id", userID)
	return token, nil
}
