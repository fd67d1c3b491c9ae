package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthFilter admits requests with HTTP basic credentials matching a
// configured user and bcrypt password hash.
type BasicAuthFilter struct {
	username     []byte
	passwordHash []byte
}

// NewBasicAuthFilter creates a BasicAuthFilter. passwordHash must be a bcrypt hash.
func NewBasicAuthFilter(username, passwordHash string) (*BasicAuthFilter, error) {
	if username == "" {
		return nil, errors.New("basic auth filter requires a username")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, errors.New("basic auth filter requires a bcrypt password hash")
	}
	return &BasicAuthFilter{username: []byte(username), passwordHash: []byte(passwordHash)}, nil
}

// Authorize implements Filter.
func (f *BasicAuthFilter) Authorize(r *http.Request) (bool, error) {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false, nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), f.username) == 1
	passOK := bcrypt.CompareHashAndPassword(f.passwordHash, []byte(pass)) == nil
	return userOK && passOK, nil
}

// HashPassword returns a bcrypt hash suitable for the basic auth config.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
