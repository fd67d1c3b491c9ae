package config

import (
	"fmt"

	"github.com/charliek/logview/internal/auth"
)

// Chain builds the authorization chain from the configured filters.
// No filters yields an empty chain, which allows every request.
func (a AuthConfig) Chain() (auth.Chain, error) {
	var chain auth.Chain

	if a.LocalOnly {
		chain = append(chain, auth.LocalRequestsFilter{})
	}
	if a.Token != "" {
		f, err := auth.NewTokenFilter(a.Token)
		if err != nil {
			return nil, fmt.Errorf("auth.token: %w", err)
		}
		chain = append(chain, f)
	}
	if a.Basic != nil {
		f, err := auth.NewBasicAuthFilter(a.Basic.Username, a.Basic.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("auth.basic: %w", err)
		}
		chain = append(chain, f)
	}
	if a.JWT != nil {
		f, err := auth.NewJWTFilter(a.JWT.Secret, a.JWT.Role)
		if err != nil {
			return nil, fmt.Errorf("auth.jwt: %w", err)
		}
		chain = append(chain, f)
	}

	return chain, nil
}
