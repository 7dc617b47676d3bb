// Package app provides the application initialization and lifecycle management
package app

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/database"
	"github.com/postforge/postforge/internal/files"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/loggy"
	"github.com/postforge/postforge/internal/parser"
	"github.com/postforge/postforge/internal/post"
	"github.com/postforge/postforge/internal/sanitize"
)

// App represents the application instance with its dependencies
type App struct {
	Config    *config.Config
	LLM       *llm.Factory
	Discovery *llm.Discovery
	Sanitizer *sanitize.Sanitizer
	Parser    *parser.Parser
	Extractor *files.Extractor
	Posts     *post.Service
	PostRepo  post.Repository
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	app, err := initServices(cfg, db)
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config, db *sql.DB) (*App, error) {
	logger := loggy.GetGlobalLogger()

	factory := llm.NewFactory(cfg, logger)
	if len(factory.Available()) == 0 {
		loggy.Warn("No LLM provider configured, generation commands will fail")
	}
	discovery := llm.NewDiscovery(factory, cfg.Generation.ModelCacheTTL, logger)

	mapping := sanitize.NewMapping()
	for _, pair := range cfg.Sanitizer.ExtraMappings {
		source, target, ok := strings.Cut(pair, "=")
		if !ok || source == "" {
			loggy.Warn("Skipping invalid sanitizer mapping", "mapping", pair)
			continue
		}
		mapping.Add(source, target)
	}
	sanitizer := sanitize.New(mapping, logger)

	parserService := parser.New(sanitizer, logger)
	extractor := files.NewExtractor(logger)

	postRepo := post.NewSQLRepository(db, logger)
	postService := post.NewService(cfg, postRepo, factory, extractor, parserService, logger)

	return &App{
		Config:    cfg,
		LLM:       factory,
		Discovery: discovery,
		Sanitizer: sanitizer,
		Parser:    parserService,
		Extractor: extractor,
		Posts:     postService,
		PostRepo:  postRepo,
	}, nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if err := database.CloseDB(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
