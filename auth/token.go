package auth

import (
	"chat-notify/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the structure of the tokens accepted by the chat service.
type SessionClaims struct {
	Instance string `json:"instance"`
	// SU grants a server token full access to the instance.
	SU bool `json:"su,omitempty"`
	jwt.RegisteredClaims
}

// Token is the body answered to a client asking for a session token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type TokenIssuer struct {
	credentials Credentials
	ttl         time.Duration
	now         func() time.Time
}

func NewTokenIssuer(credentials Credentials, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{credentials: credentials, ttl: ttl, now: time.Now}
}

// IssueUserToken signs a token for the given user id.
func (i *TokenIssuer) IssueUserToken(userID string) (Token, error) {
	if userID == "" {
		return Token{}, errors.ErrMissingUserID
	}
	return i.issue(userID, false)
}

// IssueServiceToken signs a superuser token used by the server itself.
func (i *TokenIssuer) IssueServiceToken() (Token, error) {
	return i.issue("", true)
}

func (i *TokenIssuer) issue(subject string, su bool) (Token, error) {
	now := i.now()
	claims := &SessionClaims{
		Instance: i.credentials.InstanceID,
		SU:       su,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    fmt.Sprintf("api_keys/%s", i.credentials.KeyID),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(i.credentials.Secret))
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(i.ttl.Seconds()),
	}, nil
}

// ValidateToken parses and validates the signature and expiration of a JWT string.
func (i *TokenIssuer) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(i.credentials.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		if claims.Instance != i.credentials.InstanceID {
			return nil, fmt.Errorf("%w: foreign instance %q", errors.ErrInvalidToken, claims.Instance)
		}
		return claims, nil
	}
	return nil, errors.ErrInvalidToken
}
