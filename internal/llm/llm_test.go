package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/loggy"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.DefaultLLMProvider = "openai"
	cfg.OpenAI = config.OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
	cfg.Claude = config.ClaudeConfig{
		APIKey:  "test-key",
		Model:   "claude-3-5-sonnet-20241022",
		Timeout: 5 * time.Second,
	}
	return cfg
}

func TestFactoryGetClient(t *testing.T) {
	f := NewFactory(testConfig(), loggy.NewNoopLogger())

	t.Run("configured providers", func(t *testing.T) {
		for _, ct := range []ClientType{OpenAI, Claude} {
			client, err := f.GetClient(ct)
			require.NoError(t, err, "provider %s", ct)
			assert.NotNil(t, client)
		}
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		_, err := f.GetClient(Gemini)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not initialized")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := f.GetClient(ClientType("mystery"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown client type")
	})
}

func TestFactoryGetDefaultClient(t *testing.T) {
	t.Run("default provider available", func(t *testing.T) {
		f := NewFactory(testConfig(), loggy.NewNoopLogger())
		client, clientType, err := f.GetDefaultClient()
		require.NoError(t, err)
		assert.Equal(t, OpenAI, clientType)
		assert.NotNil(t, client)
	})

	t.Run("falls back when default unavailable", func(t *testing.T) {
		cfg := testConfig()
		cfg.DefaultLLMProvider = "gemini"
		f := NewFactory(cfg, loggy.NewNoopLogger())

		client, clientType, err := f.GetDefaultClient()
		require.NoError(t, err)
		assert.Equal(t, OpenAI, clientType)
		assert.NotNil(t, client)
	})

	t.Run("errors with nothing configured", func(t *testing.T) {
		f := NewFactory(&config.Config{DefaultLLMProvider: "openai"}, loggy.NewNoopLogger())
		_, _, err := f.GetDefaultClient()
		require.Error(t, err)
	})
}

func TestFactoryAvailable(t *testing.T) {
	f := NewFactory(testConfig(), loggy.NewNoopLogger())
	assert.Equal(t, []ClientType{OpenAI, Claude}, f.Available())
}

func TestNewLimiter(t *testing.T) {
	t.Run("zero rpm means unlimited", func(t *testing.T) {
		l := newLimiter(0, 0)
		assert.Equal(t, rate.Inf, l.Limit())
	})

	t.Run("rpm converts to per-second rate", func(t *testing.T) {
		l := newLimiter(60, 5)
		assert.Equal(t, rate.Limit(1), l.Limit())
		assert.Equal(t, 5, l.Burst())
	})

	t.Run("burst floor of one", func(t *testing.T) {
		l := newLimiter(30, 0)
		assert.Equal(t, 1, l.Burst())
	})
}

// stubClient is a canned Client for discovery tests
type stubClient struct {
	models []ModelInfo
	err    error
	calls  int
}

func (s *stubClient) GenerateChat(context.Context, ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Content: "ok"}, nil
}

func (s *stubClient) ListModels(context.Context) ([]ModelInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.models, nil
}

// stubSource returns a fixed client per provider
type stubSource struct {
	clients map[ClientType]Client
}

func (s *stubSource) GetClient(clientType ClientType) (Client, error) {
	client, ok := s.clients[clientType]
	if !ok {
		return nil, errors.New("not configured")
	}
	return client, nil
}

func TestDiscoveryModels(t *testing.T) {
	t.Run("caches within ttl", func(t *testing.T) {
		stub := &stubClient{models: []ModelInfo{{ID: "gpt-4o-mini"}}}
		source := &stubSource{clients: map[ClientType]Client{OpenAI: stub}}
		d := NewDiscovery(source, time.Hour, loggy.NewNoopLogger())

		for i := 0; i < 3; i++ {
			models, err := d.Models(context.Background(), OpenAI)
			require.NoError(t, err)
			assert.Equal(t, []ModelInfo{{ID: "gpt-4o-mini"}}, models)
		}
		assert.Equal(t, 1, stub.calls, "only the first lookup hits the provider")
	})

	t.Run("expired entries are refetched", func(t *testing.T) {
		stub := &stubClient{models: []ModelInfo{{ID: "gpt-4o-mini"}}}
		source := &stubSource{clients: map[ClientType]Client{OpenAI: stub}}
		d := NewDiscovery(source, time.Hour, loggy.NewNoopLogger())

		current := time.Now()
		d.now = func() time.Time { return current }

		_, err := d.Models(context.Background(), OpenAI)
		require.NoError(t, err)

		current = current.Add(2 * time.Hour)
		_, err = d.Models(context.Background(), OpenAI)
		require.NoError(t, err)
		assert.Equal(t, 2, stub.calls)
	})

	t.Run("refresh bypasses cache", func(t *testing.T) {
		stub := &stubClient{models: []ModelInfo{{ID: "gpt-4o-mini"}}}
		source := &stubSource{clients: map[ClientType]Client{OpenAI: stub}}
		d := NewDiscovery(source, time.Hour, loggy.NewNoopLogger())

		_, err := d.Models(context.Background(), OpenAI)
		require.NoError(t, err)
		_, err = d.Refresh(context.Background(), OpenAI)
		require.NoError(t, err)
		assert.Equal(t, 2, stub.calls)
	})

	t.Run("falls back when listing fails", func(t *testing.T) {
		stub := &stubClient{err: errors.New("boom")}
		source := &stubSource{clients: map[ClientType]Client{Claude: stub}}
		d := NewDiscovery(source, time.Hour, loggy.NewNoopLogger())

		models, err := d.Models(context.Background(), Claude)
		require.NoError(t, err)
		assert.Equal(t, fallbackModels[Claude], models)
	})

	t.Run("falls back when provider unconfigured", func(t *testing.T) {
		d := NewDiscovery(&stubSource{}, time.Hour, loggy.NewNoopLogger())
		models, err := d.Models(context.Background(), Gemini)
		require.NoError(t, err)
		assert.Equal(t, fallbackModels[Gemini], models)
	})

	t.Run("unknown provider propagates the error", func(t *testing.T) {
		d := NewDiscovery(&stubSource{}, time.Hour, loggy.NewNoopLogger())
		_, err := d.Models(context.Background(), ClientType("mystery"))
		require.Error(t, err)
	})
}
