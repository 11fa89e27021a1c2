package main

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PostService implements listing and owner-only mutation of posts. Mutating
// calls take the raw bearer token and resolve the acting user from it.
type PostService struct {
	db      *sqlx.DB
	tokens  *TokenService
	log     logrus.FieldLogger
	metrics *Metrics
}

func NewPostService(db *sqlx.DB, tokens *TokenService, log logrus.FieldLogger, metrics *Metrics) *PostService {
	return &PostService{db: db, tokens: tokens, log: log, metrics: metrics}
}

func (s *PostService) ListAll(ctx context.Context) ([]PostResponse, error) {
	posts, err := getPosts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return toPostResponses(posts), nil
}

// ListByUser returns the posts of username, or an empty list when there is
// no such user.
func (s *PostService) ListByUser(ctx context.Context, username string) ([]PostResponse, error) {
	user, err := getUserByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []PostResponse{}, nil
	}

	posts, err := getPostsByUser(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}
	return toPostResponses(posts), nil
}

func (s *PostService) Create(ctx context.Context, req PostRequest, token string) (msg string, err error) {
	defer func() { s.metrics.recordPostWrite("create", err) }()

	username, err := s.actingUsername(token)
	if err != nil {
		return "", err
	}
	log := s.log.WithField("username", username)

	user, err := getUserByUsername(ctx, s.db, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		log.Warn("token subject not found in database")
		return "", errNotFound(msgUserNotFound)
	}

	if err := validatePostRequest(req); err != nil {
		return "", err
	}

	existing, err := getPostByTitle(ctx, s.db, req.Title)
	if err != nil {
		return "", err
	}
	if existing != nil {
		log.WithField("title", req.Title).Info("duplicate title rejected")
		return "", errValidation(msgTitlePresent)
	}

	id, err := createPost(ctx, s.db, user.ID, req.Title, req.Content)
	if err != nil {
		if isUniqueViolation(err) {
			return "", errValidation(msgTitlePresent)
		}
		return "", err
	}

	log.WithField("post_id", id).Info("post created")
	return msgPostCreated, nil
}

func (s *PostService) Update(ctx context.Context, id int64, req PostRequest, token string) (msg string, err error) {
	defer func() { s.metrics.recordPostWrite("update", err) }()

	username, err := s.actingUsername(token)
	if err != nil {
		return "", err
	}
	log := s.log.WithFields(logrus.Fields{"username": username, "post_id": id})

	post, err := getPostByID(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", errNotFound(msgPostNotFound)
	}

	if post.Username != username {
		log.WithField("owner", post.Username).Warn("update by non-owner rejected")
		return "", errForbidden(msgNotOwnerUpdate)
	}

	if err := validatePostRequest(req); err != nil {
		return "", err
	}

	if req.Title != post.Title {
		existing, err := getPostByTitle(ctx, s.db, req.Title)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", errValidation(msgTitlePresent)
		}
	}

	if err := updatePost(ctx, s.db, id, req.Title, req.Content); err != nil {
		if isUniqueViolation(err) {
			return "", errValidation(msgTitlePresent)
		}
		return "", err
	}

	log.Info("post updated")
	return msgPostUpdated, nil
}

func (s *PostService) Delete(ctx context.Context, id int64, token string) (msg string, err error) {
	defer func() { s.metrics.recordPostWrite("delete", err) }()

	username, err := s.actingUsername(token)
	if err != nil {
		return "", err
	}
	log := s.log.WithFields(logrus.Fields{"username": username, "post_id": id})

	post, err := getPostByID(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", errNotFound(msgPostNotFound)
	}

	if post.Username != username {
		log.WithField("owner", post.Username).Warn("delete by non-owner rejected")
		return "", errForbidden(msgNotOwnerDelete)
	}

	if err := deletePost(ctx, s.db, id); err != nil {
		return "", err
	}

	log.Info("post deleted")
	return msgPostDeleted, nil
}

func (s *PostService) actingUsername(token string) (string, error) {
	username := s.tokens.ExtractSubject(token)
	if username == "" || !s.tokens.IsValid(token, username) {
		s.log.Debug("rejecting invalid or expired token")
		return "", errUnauthorized(msgInvalidToken)
	}
	return username, nil
}

func validatePostRequest(req PostRequest) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return errValidation(msgFieldsMissing)
	}
	return nil
}

func toPostResponses(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
