package cmd

import (
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/pinkflow/pinkflow/pkg/registry"
)

// NewHistorySink creates a history sink from a URL. Redis URLs
// (redis:// or rediss://) get a capped Redis list; "memory" or an empty URL
// gets the in-process ring buffer.
func NewHistorySink(url string) (registry.HistorySink, error) {
	switch {
	case url == "" || url == "memory":
		return registry.NewMemoryHistory(0), nil
	case strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://"):
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}

		return registry.NewRedisHistory(redis.NewClient(opts), "", 0), nil
	default:
		return nil, fmt.Errorf("unsupported history sink url: %s", url)
	}
}
