package domain

import "errors"

// Domain errors
var (
	ErrUnknownProvider   = errors.New("unknown log provider")
	ErrDuplicateProvider = errors.New("log provider already registered")
	ErrNoProviders       = errors.New("no log providers registered")
	ErrTemplateLoad      = errors.New("loading index template")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// GenericErrorMessage replaces error detail in responses to non-local callers.
const GenericErrorMessage = "Internal server error"

// ErrorCode returns a short label for a domain error, used in logs and metrics
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownProvider):
		return "UNKNOWN_PROVIDER"
	case errors.Is(err, ErrNoProviders):
		return "NO_PROVIDERS"
	case errors.Is(err, ErrTemplateLoad):
		return "TEMPLATE_LOAD"
	default:
		return "INTERNAL_ERROR"
	}
}
