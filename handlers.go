package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

func (b *Blog) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := b.users.Register(r.Context(), req)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusCreated, msg)
}

func (b *Blog) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": msgInvalidCredentials})
		return
	}

	resp, err := b.users.Login(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": msgInvalidCredentials})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (b *Blog) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.ListAll(r.Context())
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (b *Blog) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.ListByUser(r.Context(), r.PathValue("username"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (b *Blog) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := b.posts.Create(r.Context(), req, bearerToken(r))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, msg)
}

func (b *Blog) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var req PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := b.posts.Update(r.Context(), id, req, bearerToken(r))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, msg)
}

func (b *Blog) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	msg, err := b.posts.Delete(r.Context(), id, bearerToken(r))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, msg)
}

func (b *Blog) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := b.db.PingContext(r.Context()); err != nil {
		requestLogger(r.Context(), b.log).WithError(err).Error("database ping failed")
		writeText(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeText(w, http.StatusOK, "ok")
}

// writeError writes the client-facing form of err. Unclassified errors are
// logged and reported as a bare 500.
func (b *Blog) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		requestLogger(r.Context(), b.log).WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}
	writeText(w, status, msg)
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
