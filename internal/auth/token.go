package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// TokenQueryParam lets browsers pass the token on the index page URL.
const TokenQueryParam = "token"

// TokenFilter admits requests carrying a static bearer token.
type TokenFilter struct {
	token []byte
}

// NewTokenFilter creates a TokenFilter. The token must not be empty.
func NewTokenFilter(token string) (*TokenFilter, error) {
	if token == "" {
		return nil, errors.New("token filter requires a non-empty token")
	}
	return &TokenFilter{token: []byte(token)}, nil
}

// Authorize implements Filter.
func (f *TokenFilter) Authorize(r *http.Request) (bool, error) {
	provided, ok := bearerToken(r)
	if !ok {
		provided = r.URL.Query().Get(TokenQueryParam)
	}
	if provided == "" {
		return false, nil
	}
	// Use constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(provided), f.token) == 1, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)), true
}
