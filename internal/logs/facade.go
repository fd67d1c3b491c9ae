package logs

import (
	"context"
	"fmt"

	"github.com/charliek/logview/internal/domain"
)

// Session is the per-request view of the registry. The active provider
// lives here and nowhere else, so concurrent requests selecting different
// providers cannot observe each other's choice. A Session must not be
// shared between requests.
type Session struct {
	registry *Registry
	active   Provider
	key      string
}

// SwitchToProvider makes key the active provider for this session.
func (s *Session) SwitchToProvider(key string) error {
	p, err := s.registry.Lookup(key)
	if err != nil {
		return err
	}
	s.active = p
	s.key = key
	return nil
}

// ActiveKey returns the name of the provider the next fetch will use.
func (s *Session) ActiveKey() (string, error) {
	if _, err := s.provider(); err != nil {
		return "", err
	}
	return s.key, nil
}

func (s *Session) provider() (Provider, error) {
	if s.active != nil {
		return s.active, nil
	}
	p, name, err := s.registry.Default()
	if err != nil {
		return nil, err
	}
	s.active = p
	s.key = name
	return p, nil
}

// FetchData runs q against the active provider. Logs is never nil and
// holds at most q.PageSize entries; Total is the provider's match count.
func (s *Session) FetchData(ctx context.Context, q domain.LogQuery) (domain.LogPage, error) {
	p, err := s.provider()
	if err != nil {
		return domain.LogPage{}, err
	}

	page, err := p.Fetch(ctx, q)
	if err != nil {
		return domain.LogPage{}, fmt.Errorf("fetching from provider %s: %w", s.key, err)
	}

	if page.Logs == nil {
		page.Logs = []domain.LogEntry{}
	}
	if q.PageSize >= 0 && len(page.Logs) > q.PageSize {
		page.Logs = page.Logs[:q.PageSize]
	}
	return page, nil
}
