// Package logs holds the log providers, the registry that names them and
// the request-scoped facade used by the HTTP layer to query them.
package logs

import (
	"context"

	"github.com/charliek/logview/internal/domain"
)

// Provider is a read-only log store. Fetch returns one page of entries
// matching q, newest first, and the number of matching entries ignoring
// pagination. Ordering must be stable for identical queries.
type Provider interface {
	Fetch(ctx context.Context, q domain.LogQuery) (domain.LogPage, error)
}

// Closer is implemented by providers holding connections.
type Closer interface {
	Close() error
}
