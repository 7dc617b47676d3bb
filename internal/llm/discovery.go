package llm

import (
	"context"
	"sync"
	"time"

	"github.com/postforge/postforge/internal/loggy"
)

// ClientSource resolves a client for a provider. *Factory satisfies it.
type ClientSource interface {
	GetClient(clientType ClientType) (Client, error)
}

// fallbackModels are served when a provider's models endpoint is
// unreachable, so generation can still be pointed at a known model.
var fallbackModels = map[ClientType][]ModelInfo{
	OpenAI: {
		{ID: "gpt-4o"},
		{ID: "gpt-4o-mini"},
		{ID: "gpt-4-turbo"},
		{ID: "gpt-3.5-turbo"},
	},
	Claude: {
		{ID: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet"},
		{ID: "claude-3-5-haiku-20241022", DisplayName: "Claude 3.5 Haiku"},
		{ID: "claude-3-opus-20240229", DisplayName: "Claude 3 Opus"},
	},
	Gemini: {
		{ID: "gemini-1.5-pro"},
		{ID: "gemini-1.5-flash"},
		{ID: "gemini-2.0-flash"},
	},
}

type cacheEntry struct {
	models    []ModelInfo
	fetchedAt time.Time
}

// Discovery caches per-provider model listings so repeated lookups
// don't hammer the providers' models endpoints.
type Discovery struct {
	source ClientSource
	ttl    time.Duration
	logger *loggy.Logger

	mu    sync.Mutex
	cache map[ClientType]cacheEntry
	now   func() time.Time
}

// NewDiscovery creates a model discovery service. Entries stay fresh
// for ttl; a non-positive ttl disables caching.
func NewDiscovery(source ClientSource, ttl time.Duration, logger *loggy.Logger) *Discovery {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Discovery{
		source: source,
		ttl:    ttl,
		logger: logger,
		cache:  make(map[ClientType]cacheEntry),
		now:    time.Now,
	}
}

// Models returns the models the provider offers, from cache when
// fresh. When the provider cannot be reached, a static fallback list
// is returned instead so callers always have something to offer.
func (d *Discovery) Models(ctx context.Context, provider ClientType) ([]ModelInfo, error) {
	d.mu.Lock()
	entry, ok := d.cache[provider]
	d.mu.Unlock()
	if ok && d.ttl > 0 && d.now().Sub(entry.fetchedAt) < d.ttl {
		return entry.models, nil
	}

	return d.Refresh(ctx, provider)
}

// Refresh fetches the provider's model list, bypassing the cache.
func (d *Discovery) Refresh(ctx context.Context, provider ClientType) ([]ModelInfo, error) {
	client, err := d.source.GetClient(provider)
	if err != nil {
		return d.fallback(provider, err)
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		return d.fallback(provider, err)
	}

	d.mu.Lock()
	d.cache[provider] = cacheEntry{models: models, fetchedAt: d.now()}
	d.mu.Unlock()

	d.logger.Debug("discovered models", "provider", string(provider), "count", len(models))
	return models, nil
}

func (d *Discovery) fallback(provider ClientType, cause error) ([]ModelInfo, error) {
	models, ok := fallbackModels[provider]
	if !ok {
		return nil, cause
	}
	d.logger.Warn("model discovery failed, using fallback list",
		"provider", string(provider),
		"error", cause)
	return models, nil
}
