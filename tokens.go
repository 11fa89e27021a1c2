package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	roleUser          = "ROLE_USER"
	minSigningKeySize = 32
)

var errWeakSigningKey = errors.New("token signing key must be at least 32 bytes")

type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Verification never
// returns errors to callers: a token that fails to parse, has a bad
// signature or has expired is simply not valid.
type TokenService struct {
	key []byte
	now func() time.Time
}

func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) < minSigningKeySize {
		return nil, errWeakSigningKey
	}
	return &TokenService{key: key, now: time.Now}, nil
}

func (s *TokenService) Generate(principal Principal, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		Roles: principal.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// ExtractSubject returns the username the token was issued for, or "" if
// the token is not valid.
func (s *TokenService) ExtractSubject(token string) string {
	claims, err := s.parse(token)
	if err != nil {
		return ""
	}
	return claims.Subject
}

func (s *TokenService) ExtractRoles(token string) []string {
	claims, err := s.parse(token)
	if err != nil || claims.Roles == nil {
		return []string{}
	}
	return claims.Roles
}

func (s *TokenService) IsValid(token, username string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	return username != "" && claims.Subject == username
}

func (s *TokenService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
