// Package jwttoken signs and verifies the short-lived service tokens required
// by the token gate. Claims carry the configured service principal under
// "username" plus a standard expiry.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "caretrack/pkg/domainerrors"
)

// Claims is the wire shape of an issued token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service handles token creation and validation with a symmetric key.
type Service struct {
	signingKey []byte
	principal  string
	ttl        time.Duration
}

func NewService(signingKey, principal string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		principal:  principal,
		ttl:        ttl,
	}
}

// Issue signs a token for the configured principal, valid for the configured
// duration.
func (s *Service) Issue() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: s.principal,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate parses and verifies a token string, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Verify validates the token and checks that it was issued for the configured
// principal. The token gate only needs this pass/fail answer.
func (s *Service) Verify(tokenString string) error {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return err
	}
	if claims.Username != s.principal {
		return dErrors.New(dErrors.CodeUnauthorized, "unexpected token principal")
	}
	return nil
}
