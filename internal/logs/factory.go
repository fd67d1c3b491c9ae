package logs

import (
	"context"
	"fmt"

	"github.com/charliek/logview/internal/config"
	"github.com/charliek/logview/internal/constants"
)

// FromConfig creates the provider described by one providers entry.
func FromConfig(ctx context.Context, pc config.ProviderConfig) (Provider, error) {
	switch pc.Type {
	case config.ProviderMemory:
		return NewMemoryProvider(pc.Capacity), nil
	case config.ProviderFile:
		return NewFileProvider(pc.Path), nil
	case config.ProviderPostgres:
		return NewPostgresProvider(ctx, pc.DSN, pc.Table)
	case config.ProviderRedis:
		return NewRedisProvider(RedisOptions{
			Addr:       pc.Addr,
			Password:   pc.Password,
			DB:         pc.DB,
			Key:        pc.Key,
			MaxEntries: pc.MaxEntries,
		})
	default:
		return nil, fmt.Errorf("unsupported provider type %q", pc.Type)
	}
}

// BuildRegistry registers self under the self provider name, when non-nil,
// followed by every configured provider in declaration order. Providers
// already opened are closed if a later one fails.
func BuildRegistry(ctx context.Context, cfg *config.Config, self *MemoryProvider) (*Registry, error) {
	registry := NewRegistry()

	if self != nil {
		if err := registry.Register(constants.SelfProviderName, self); err != nil {
			return nil, err
		}
	}

	for _, pc := range cfg.Providers {
		p, err := FromConfig(ctx, pc)
		if err != nil {
			registry.Close()
			return nil, fmt.Errorf("provider %s: %w", pc.Name, err)
		}
		if err := registry.Register(pc.Name, p); err != nil {
			if c, ok := p.(Closer); ok {
				c.Close()
			}
			registry.Close()
			return nil, err
		}
	}

	if cfg.DefaultProvider != "" {
		if err := registry.SetDefault(cfg.DefaultProvider); err != nil {
			registry.Close()
			return nil, err
		}
	}

	return registry, nil
}
