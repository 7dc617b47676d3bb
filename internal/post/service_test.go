package post

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/files"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/loggy"
	"github.com/postforge/postforge/internal/parser"
	"github.com/postforge/postforge/internal/sanitize"
)

type stubLLMClient struct {
	response   string
	err        error
	lastPrompt string
	model      string
}

func (c *stubLLMClient) GenerateChat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(req.Messages) > 0 {
		c.lastPrompt = req.Messages[len(req.Messages)-1].Content
	}
	model := c.model
	if model == "" {
		model = "stub-model"
	}
	return &llm.ChatResponse{Content: c.response, Model: model}, nil
}

func (c *stubLLMClient) ListModels(_ context.Context) ([]llm.ModelInfo, error) {
	return nil, errors.New("not implemented")
}

type stubClientSource struct {
	client llm.Client
	err    error
}

func (s *stubClientSource) GetClient(_ llm.ClientType) (llm.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

func (s *stubClientSource) GetDefaultClient() (llm.Client, llm.ClientType, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.client, llm.OpenAI, nil
}

type stubRepository struct {
	saved       []*Post
	recentTexts []string
	saveErr     error
}

func (r *stubRepository) SavePosts(_ context.Context, posts []*Post) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, posts...)
	return nil
}

func (r *stubRepository) GetPost(_ context.Context, _ string) (*Post, error) {
	return nil, errors.New("not implemented")
}

func (r *stubRepository) ListBatch(_ context.Context, _ string) ([]*Post, error) {
	return nil, errors.New("not implemented")
}

func (r *stubRepository) ListRecent(_ context.Context, _ string, _ int) ([]*Post, error) {
	return nil, errors.New("not implemented")
}

func (r *stubRepository) RecentTexts(_ context.Context, _ string, _ int) ([]string, error) {
	return r.recentTexts, nil
}

func (r *stubRepository) DeleteBatch(_ context.Context, _ string) (int64, error) {
	return 0, errors.New("not implemented")
}

func testGenerationConfig() *config.Config {
	return &config.Config{
		Generation: config.GenerationConfig{
			DefaultPlatform: PlatformLinkedIn,
			DefaultCount:    3,
			MaxCount:        50,
			HistoryLimit:    5,
		},
	}
}

func newTestService(t *testing.T, client llm.Client, repo Repository) *Service {
	t.Helper()

	logger := loggy.NewNoopLogger()
	p := parser.New(sanitize.New(sanitize.NewMapping(), logger), logger)
	return NewService(
		testGenerationConfig(),
		repo,
		&stubClientSource{client: client},
		files.NewExtractor(logger),
		p,
		logger,
	)
}

func TestServiceGenerate(t *testing.T) {
	client := &stubLLMClient{
		response: "POST 1:\nFirst post about launches.\n---\nPOST 2:\nSecond post about shipping.",
	}
	repo := &stubRepository{}
	svc := newTestService(t, client, repo)

	batch, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText: "We launched a new feature this week.",
		Platform:   PlatformX,
		Count:      2,
	})
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, PlatformX, batch.Platform)
	assert.Equal(t, "openai", batch.Provider)
	require.Len(t, batch.Posts, 2)

	first := batch.Posts[0]
	assert.Equal(t, "First post about launches.", first.Text)
	assert.Equal(t, batch.ID, first.BatchID)
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, len([]rune(first.Text)), first.CharCount)
	assert.Equal(t, 2, batch.Posts[1].Index)

	assert.Len(t, repo.saved, 2, "Generated posts should be persisted")
	assert.Contains(t, client.lastPrompt, "We launched a new feature this week.")
	assert.Contains(t, client.lastPrompt, "generate exactly 2 posts")
}

func TestServiceGenerateFromFiles(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(sourcePath, []byte("Quarterly results exceeded targets."), 0644))

	client := &stubLLMClient{response: "A single post about quarterly results."}
	svc := newTestService(t, client, &stubRepository{})

	batch, err := svc.Generate(context.Background(), GenerateRequest{
		SourceFiles: []string{sourcePath},
		Platform:    PlatformLinkedIn,
		Count:       1,
	})
	require.NoError(t, err)
	require.Len(t, batch.Posts, 1)
	assert.Contains(t, client.lastPrompt, "Quarterly results exceeded targets.")
}

func TestServiceGenerateDefaults(t *testing.T) {
	client := &stubLLMClient{
		response: "1. First post here\n2. Second post here\n3. Third post here",
	}
	svc := newTestService(t, client, &stubRepository{})

	batch, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText: "Some source material.",
	})
	require.NoError(t, err)

	// Platform and count fall back to configured defaults.
	assert.Equal(t, PlatformLinkedIn, batch.Platform)
	assert.Len(t, batch.Posts, 3)
}

func TestServiceGenerateValidation(t *testing.T) {
	svc := newTestService(t, &stubLLMClient{response: "ok"}, &stubRepository{})
	ctx := context.Background()

	tests := []struct {
		name    string
		req     GenerateRequest
		wantErr string
	}{
		{
			name:    "unknown platform",
			req:     GenerateRequest{SourceText: "text", Platform: "MySpace", Count: 1},
			wantErr: "unsupported platform",
		},
		{
			name:    "count too high",
			req:     GenerateRequest{SourceText: "text", Platform: PlatformX, Count: 51},
			wantErr: "between 1 and 50",
		},
		{
			name:    "negative count",
			req:     GenerateRequest{SourceText: "text", Platform: PlatformX, Count: -1},
			wantErr: "between 1 and 50",
		},
		{
			name:    "no source material",
			req:     GenerateRequest{Platform: PlatformX, Count: 1},
			wantErr: "no source material",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServiceGenerateNoPosts(t *testing.T) {
	client := &stubLLMClient{response: "   \n\n  "}
	svc := newTestService(t, client, &stubRepository{})

	_, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText: "Some source material.",
		Platform:   PlatformX,
		Count:      2,
	})
	assert.ErrorIs(t, err, ErrNoPosts)
}

func TestServiceGenerateClientError(t *testing.T) {
	client := &stubLLMClient{err: errors.New("rate limited")}
	svc := newTestService(t, client, &stubRepository{})

	_, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText: "Some source material.",
		Platform:   PlatformX,
		Count:      1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestServiceGenerateHistoryFromStore(t *testing.T) {
	client := &stubLLMClient{response: "A fresh post informed by history."}
	repo := &stubRepository{recentTexts: []string{"An older post we published."}}
	svc := newTestService(t, client, repo)

	_, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText: "Some source material.",
		Platform:   PlatformLinkedIn,
		Count:      1,
	})
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "An older post we published.")
}

func TestServiceGenerateHistoryFile(t *testing.T) {
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "history.csv")
	csv := "Post Text\nA post imported from the history file.\n"
	require.NoError(t, os.WriteFile(historyPath, []byte(csv), 0644))

	client := &stubLLMClient{response: "A fresh post."}
	repo := &stubRepository{recentTexts: []string{"Stored post that should be ignored."}}
	svc := newTestService(t, client, repo)

	_, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText:  "Some source material.",
		Platform:    PlatformLinkedIn,
		Count:       1,
		HistoryFile: historyPath,
	})
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "A post imported from the history file.")
	assert.NotContains(t, client.lastPrompt, "Stored post that should be ignored.")
}

func TestServiceGenerateBrandGuideDegradesGracefully(t *testing.T) {
	client := &stubLLMClient{response: "A post without brand guidance."}
	svc := newTestService(t, client, &stubRepository{})

	// A missing brand guide file logs a warning but does not fail the run.
	_, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText:     "Some source material.",
		Platform:       PlatformX,
		Count:          1,
		BrandGuideFile: filepath.Join(t.TempDir(), "missing.txt"),
	})
	assert.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "No specific brand guidelines provided")
}

func TestServiceGenerateOverLimitWarnsOnly(t *testing.T) {
	long := strings.Repeat("a", 300)
	client := &stubLLMClient{response: long}
	svc := newTestService(t, client, &stubRepository{})

	batch, err := svc.Generate(context.Background(), GenerateRequest{
		SourceText: "Some source material.",
		Platform:   PlatformX,
		Count:      1,
	})
	require.NoError(t, err)
	require.Len(t, batch.Posts, 1)
	assert.True(t, batch.Posts[0].OverLimit())
}
