package main

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-key-that-is-long-enough-for-hs256"

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService([]byte(testSecret))
	require.NoError(t, err)
	return tokens
}

func TestNewTokenService_WeakKey(t *testing.T) {
	_, err := NewTokenService([]byte("short"))
	assert.ErrorIs(t, err, errWeakSigningKey)
}

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := newTestTokens(t)
	principal := Principal{Username: "alice", Authorities: []string{roleUser}}

	token, err := tokens.Generate(principal, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3)

	assert.Equal(t, "alice", tokens.ExtractSubject(token))
	assert.Equal(t, []string{roleUser}, tokens.ExtractRoles(token))
	assert.True(t, tokens.IsValid(token, "alice"))
	assert.False(t, tokens.IsValid(token, "bob"))
}

func TestTokenService_Expiry(t *testing.T) {
	tokens := newTestTokens(t)
	issued := time.Now()
	tokens.now = func() time.Time { return issued }

	token, err := tokens.Generate(Principal{Username: "alice"}, issued.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, tokens.IsValid(token, "alice"))

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	assert.False(t, tokens.IsValid(token, "alice"))
	assert.Empty(t, tokens.ExtractSubject(token))
	assert.Empty(t, tokens.ExtractRoles(token))
}

func TestTokenService_BadSignature(t *testing.T) {
	tokens := newTestTokens(t)
	other, err := NewTokenService([]byte(strings.Repeat("x", minSigningKeySize)))
	require.NoError(t, err)

	token, err := other.Generate(Principal{Username: "alice"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.Empty(t, tokens.ExtractSubject(token))
	assert.False(t, tokens.IsValid(token, "alice"))
}

func TestTokenService_Malformed(t *testing.T) {
	tokens := newTestTokens(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		assert.Empty(t, tokens.ExtractSubject(token), token)
		assert.Empty(t, tokens.ExtractRoles(token), token)
		assert.False(t, tokens.IsValid(token, "alice"), token)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	tokens := newTestTokens(t)

	claims := tokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Empty(t, tokens.ExtractSubject(token))
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	tokens := newTestTokens(t)

	claims := tokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.False(t, tokens.IsValid(token, "alice"))
}

func TestTokenService_MissingRoles(t *testing.T) {
	tokens := newTestTokens(t)

	token, err := tokens.Generate(Principal{Username: "alice"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	roles := tokens.ExtractRoles(token)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)
}
