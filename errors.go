package main

import (
	"errors"
	"net/http"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgUsernameTaken      = "Username already exists, choose a different one"
	msgCredentialsMissing = "Username and password are required"
	msgInvalidToken       = "Invalid or expired token"
	msgUserNotFound       = "User not found"
	msgPostNotFound       = "Post not found"
	msgTitlePresent       = "Title already present"
	msgFieldsMissing      = "Title and content are required"
	msgNotOwnerUpdate     = "You are not authorized to update this post"
	msgNotOwnerDelete     = "You are not authorized to delete this post"

	msgRegistered  = "User registered successfully"
	msgPostCreated = "Post created successfully"
	msgPostUpdated = "Post updated successfully"
	msgPostDeleted = "Post deleted successfully"
)

// statusError is a failure the client is allowed to see: an HTTP status and
// a short message.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string { return e.message }

func errUnauthorized(msg string) error { return &statusError{http.StatusUnauthorized, msg} }
func errForbidden(msg string) error    { return &statusError{http.StatusForbidden, msg} }
func errNotFound(msg string) error     { return &statusError{http.StatusNotFound, msg} }
func errConflict(msg string) error     { return &statusError{http.StatusConflict, msg} }
func errValidation(msg string) error   { return &statusError{http.StatusBadRequest, msg} }

// statusOf maps err to the status and message written to the client.
// Anything that is not a statusError is reported as a bare 500.
func statusOf(err error) (int, string) {
	var se *statusError
	if errors.As(err, &se) {
		return se.status, se.message
	}
	return http.StatusInternalServerError, "Internal server error"
}
