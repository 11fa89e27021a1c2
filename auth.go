package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bearerPrefix = "Bearer "

type principalKey struct{}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func generateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// bearerToken returns the token from the Authorization header, or "" if the
// header is missing or not a bearer credential.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// authenticate resolves the bearer token, if any, into a Principal on the
// request context. Requests without a token pass through anonymously;
// requests with a bad token are rejected here.
func (b *Blog) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		log := requestLogger(r.Context(), b.log)

		username := b.tokens.ExtractSubject(token)
		if username == "" {
			log.Debug("bearer token could not be decoded")
			writeText(w, http.StatusUnauthorized, "Authentication Failed")
			return
		}

		if _, ok := principalFrom(r.Context()); ok {
			next(w, r)
			return
		}

		user, err := getUserByUsername(r.Context(), b.db, username)
		if err != nil {
			b.writeError(w, r, fmt.Errorf("resolving token subject: %w", err))
			return
		}
		if user == nil {
			log.WithField("username", username).Warn("token subject not found")
			writeText(w, http.StatusUnauthorized, "Authentication Failed")
			return
		}

		if !b.tokens.IsValid(token, user.Username) {
			log.WithField("username", username).Warn("invalid or expired token")
			writeText(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		principal := Principal{Username: user.Username, Authorities: b.tokens.ExtractRoles(token)}
		next(w, r.WithContext(withPrincipal(r.Context(), principal)))
	}
}

// requireRole rejects requests whose principal lacks the given authority.
func requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok || !p.HasAuthority(role) {
			writeText(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r)
	}
}

// requireAuth is the guard for every protected route.
func (b *Blog) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return b.authenticate(requireRole(roleUser, next))
}
