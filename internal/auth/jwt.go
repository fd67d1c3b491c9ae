package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims understood by JWTFilter.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTFilter admits requests with a valid HS256 bearer token. When role is
// set the token must also list it in its roles claim.
type JWTFilter struct {
	secret []byte
	role   string
}

// NewJWTFilter creates a JWTFilter for the given HMAC secret.
func NewJWTFilter(secret, role string) (*JWTFilter, error) {
	if secret == "" {
		return nil, errors.New("jwt filter requires a secret")
	}
	return &JWTFilter{secret: []byte(secret), role: role}, nil
}

// Authorize implements Filter. Malformed, expired or foreign tokens deny
// access without an error.
func (f *JWTFilter) Authorize(r *http.Request) (bool, error) {
	raw, ok := bearerToken(r)
	if !ok || raw == "" {
		return false, nil
	}

	claims, err := f.parse(raw)
	if err != nil {
		return false, nil
	}
	if f.role != "" && !slices.Contains(claims.Roles, f.role) {
		return false, nil
	}
	return true, nil
}

func (f *JWTFilter) parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// SignToken issues an HS256 token for claims. The token command uses it.
func SignToken(secret string, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
