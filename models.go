package main

import (
	"slices"
	"time"
)

type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}

type Post struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Username    string
	Authorities []string
}

func (p Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}

type PostResponse struct {
	PostID    int64     `json:"postId"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// PostRequest is the body of create and update calls. Username is accepted
// for compatibility with older clients and ignored; the owner always comes
// from the token.
type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

func toPostResponse(p Post) PostResponse {
	return PostResponse{
		PostID:    p.ID,
		Username:  p.Username,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}
