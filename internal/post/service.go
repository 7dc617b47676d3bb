package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/files"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/loggy"
	"github.com/postforge/postforge/internal/parser"
	"github.com/postforge/postforge/internal/prompt"
	"github.com/postforge/postforge/internal/ulid"
)

// ErrNoPosts is returned when the model response yields no usable posts.
var ErrNoPosts = errors.New("no posts could be parsed from the model response")

// ClientSource resolves LLM clients by provider.
type ClientSource interface {
	GetClient(clientType llm.ClientType) (llm.Client, error)
	GetDefaultClient() (llm.Client, llm.ClientType, error)
}

// GenerateRequest describes one generation run.
type GenerateRequest struct {
	// SourceText is inline source material. At least one of SourceText
	// and SourceFiles must be provided.
	SourceText  string
	SourceFiles []string

	// BrandGuideFile and HistoryFile are optional. A history file must
	// be a CSV with a "Post Text" column.
	BrandGuideFile string
	HistoryFile    string

	Platform string
	Count    int

	// Provider selects the LLM client. Empty means the configured
	// default with fallback.
	Provider llm.ClientType
	// Model overrides the client's default model when set.
	Model string

	Settings prompt.Settings
}

// Service runs the post generation workflow.
type Service struct {
	config    *config.Config
	repo      Repository
	clients   ClientSource
	extractor *files.Extractor
	parser    *parser.Parser
	logger    *loggy.Logger
}

// NewService creates a new post generation service.
func NewService(cfg *config.Config, repo Repository, clients ClientSource,
	extractor *files.Extractor, p *parser.Parser, logger *loggy.Logger) *Service {
	if logger == nil {
		logger = loggy.GetGlobalLogger()
	}
	return &Service{
		config:    cfg,
		repo:      repo,
		clients:   clients,
		extractor: extractor,
		parser:    p,
		logger:    logger,
	}
}

// Generate produces a batch of posts from the request's source
// material and persists it.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Batch, error) {
	if req.Platform == "" {
		req.Platform = s.config.Generation.DefaultPlatform
	}
	if req.Count == 0 {
		req.Count = s.config.Generation.DefaultCount
	}
	if req.Settings == (prompt.Settings{}) {
		req.Settings = prompt.DefaultSettings()
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	source, err := s.gatherSource(req)
	if err != nil {
		return nil, err
	}

	brandGuide := s.readBrandGuide(req.BrandGuideFile)
	history := s.gatherHistory(ctx, req)

	promptText := prompt.Build(prompt.Input{
		SourceText: source,
		BrandGuide: brandGuide,
		History:    history,
		Platform:   req.Platform,
		Count:      req.Count,
		Settings:   req.Settings,
	})

	client, provider, err := s.resolveClient(req.Provider)
	if err != nil {
		return nil, err
	}

	s.logger.Info("generating posts",
		"platform", req.Platform,
		"count", req.Count,
		"provider", provider,
	)

	resp, err := client.GenerateChat(ctx, llm.ChatRequest{
		Model: req.Model,
		Messages: []llm.Message{
			{Role: "user", Content: promptText},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generating posts with %s: %w", provider, err)
	}

	texts := s.parser.Parse(resp.Content, req.Count)
	if len(texts) == 0 {
		return nil, ErrNoPosts
	}
	if len(texts) != req.Count {
		s.logger.Warn("parsed post count differs from requested",
			"requested", req.Count,
			"parsed", len(texts),
		)
	}

	batch := &Batch{
		ID:       ulid.BatchID(),
		Platform: req.Platform,
		Provider: string(provider),
		Model:    resp.Model,
	}
	limit := CharacterLimit(req.Platform)
	for i, text := range texts {
		p := &Post{
			ID:        ulid.PostID(),
			BatchID:   batch.ID,
			Index:     i + 1,
			Platform:  req.Platform,
			Provider:  string(provider),
			Model:     resp.Model,
			Text:      text,
			CharCount: utf8.RuneCountInString(text),
		}
		if p.OverLimit() {
			s.logger.Warn("post exceeds platform character limit",
				"index", p.Index,
				"chars", p.CharCount,
				"limit", limit,
			)
		}
		batch.Posts = append(batch.Posts, p)
	}

	if err := s.repo.SavePosts(ctx, batch.Posts); err != nil {
		return nil, fmt.Errorf("saving generated posts: %w", err)
	}

	s.logger.Info("generated batch saved",
		"batch", batch.ID,
		"posts", len(batch.Posts),
	)

	return batch, nil
}

func (s *Service) validate(req GenerateRequest) error {
	if !ValidPlatform(req.Platform) {
		return fmt.Errorf("unsupported platform: %q (supported: %s)",
			req.Platform, strings.Join(Platforms(), ", "))
	}
	maxCount := s.config.Generation.MaxCount
	if req.Count < 1 || req.Count > maxCount {
		return fmt.Errorf("post count must be between 1 and %d, got %d", maxCount, req.Count)
	}
	if strings.TrimSpace(req.SourceText) == "" && len(req.SourceFiles) == 0 {
		return errors.New("no source material provided")
	}
	return nil
}

// gatherSource merges inline text and extracted file text. Source
// material is required, so extraction failures are fatal.
func (s *Service) gatherSource(req GenerateRequest) (string, error) {
	parts := make([]string, 0, 2)
	if text := strings.TrimSpace(req.SourceText); text != "" {
		parts = append(parts, text)
	}
	if len(req.SourceFiles) > 0 {
		extracted, err := s.extractor.ExtractText(req.SourceFiles)
		if err != nil {
			return "", fmt.Errorf("extracting source material: %w", err)
		}
		if extracted != "" {
			parts = append(parts, extracted)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("source material is empty")
	}
	return strings.Join(parts, "\n\n"), nil
}

// readBrandGuide extracts the brand guide text. The brand guide is
// optional, so failures degrade to a warning.
func (s *Service) readBrandGuide(path string) string {
	if path == "" {
		return ""
	}
	text, err := s.extractor.ExtractText([]string{path})
	if err != nil {
		s.logger.Warn("skipping brand guide", "path", path, "error", err)
		return ""
	}
	return text
}

// gatherHistory collects past post examples, preferring an explicit
// history file over stored posts. History is optional.
func (s *Service) gatherHistory(ctx context.Context, req GenerateRequest) []string {
	limit := s.config.Generation.HistoryLimit

	if req.HistoryFile != "" {
		posts, err := s.extractor.HistoryPosts(req.HistoryFile)
		if err != nil {
			s.logger.Warn("skipping history file", "path", req.HistoryFile, "error", err)
		} else {
			if limit > 0 && len(posts) > limit {
				posts = posts[:limit]
			}
			return posts
		}
	}

	if s.repo == nil || limit <= 0 {
		return nil
	}
	posts, err := s.repo.RecentTexts(ctx, req.Platform, limit)
	if err != nil {
		s.logger.Warn("skipping stored post history", "error", err)
		return nil
	}
	return posts
}

func (s *Service) resolveClient(provider llm.ClientType) (llm.Client, llm.ClientType, error) {
	if provider != "" {
		client, err := s.clients.GetClient(provider)
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	}
	return s.clients.GetDefaultClient()
}
