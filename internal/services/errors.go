package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrWatchlistNotFound   = errors.New("watchlist not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("token is invalid or expired")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrInactiveUser        = errors.New("user account is disabled")
	ErrStorageNotAvailable = errors.New("file storage is not configured")
)

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
