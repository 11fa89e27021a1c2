package main

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	db       *sqlx.DB
	tokens   *TokenService
	tokenTTL time.Duration
	log      logrus.FieldLogger
	metrics  *Metrics
}

func NewUserService(db *sqlx.DB, tokens *TokenService, tokenTTL time.Duration, log logrus.FieldLogger, metrics *Metrics) *UserService {
	return &UserService{
		db:       db,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		log:      log,
		metrics:  metrics,
	}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return "", errValidation(msgCredentialsMissing)
	}

	existing, err := getUserByUsername(ctx, s.db, req.Username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errConflict(msgUsernameTaken)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return "", err
	}

	if _, err := createUser(ctx, s.db, req.Username, hash); err != nil {
		if isUniqueViolation(err) {
			return "", errConflict(msgUsernameTaken)
		}
		return "", err
	}

	s.log.WithField("username", req.Username).Info("user registered")
	return msgRegistered, nil
}

// Login checks the credentials and issues an access token. Every failure,
// whatever its cause, is reported to the caller as the same 401 so the
// response never reveals which credential was wrong.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	token, err := s.authenticate(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("username", req.Username).Warn("login failed")
		s.metrics.recordLogin("failure")
		return LoginResponse{}, errUnauthorized(msgInvalidCredentials)
	}

	s.metrics.recordLogin("success")
	return LoginResponse{AccessToken: token}, nil
}

func (s *UserService) authenticate(ctx context.Context, req LoginRequest) (string, error) {
	user, err := getUserByUsername(ctx, s.db, req.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errUnauthorized("unknown user")
	}
	if !checkPassword(user.Password, req.Password) {
		return "", errUnauthorized("bad password")
	}

	principal := Principal{Username: user.Username, Authorities: []string{roleUser}}
	return s.tokens.Generate(principal, s.tokens.now().Add(s.tokenTTL))
}
