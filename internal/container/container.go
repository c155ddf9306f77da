// Package container provides dependency injection for the statement-import
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"database/sql"
	"fmt"
	"sync"

	"fjacquet/statement-import/internal/categorizer"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/database"
	"fjacquet/statement-import/internal/database/repository"
	"fjacquet/statement-import/internal/extractor"
	"fjacquet/statement-import/internal/factory"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation except for the database, which is
// opened on first use so commands that never persist do not create it.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	providers   []categorizer.Provider
	ai          *categorizer.AICategorizer
	categorizer *categorizer.Categorizer
	registry    *parser.Registry
	extractor   extractor.PDFExtractor

	providersSet bool

	dbOnce   sync.Once
	db       *sql.DB
	dbErr    error
	repos    *repository.Store
	importer *importer.Importer
}

// Option overrides a dependency, mostly for tests.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithExtractor replaces the PDF text extractor.
func WithExtractor(e extractor.PDFExtractor) Option {
	return func(c *Container) { c.extractor = e }
}

// WithProviders replaces the AI providers built from the configuration.
func WithProviders(providers ...categorizer.Provider) Option {
	return func(c *Container) {
		c.providers = providers
		c.providersSet = true
	}
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	// Create logger first as it's needed by other components
	if c.logger == nil {
		c.logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}
	if c.extractor == nil {
		c.extractor = extractor.NewRealPDFExtractor(c.logger)
	}

	c.store = store.NewCategoryStore(cfg.Categories.RulesFile, c.logger)
	mapper := categorizer.NewMapper(c.store, c.logger)

	if cfg.AI.Enabled {
		if !c.providersSet {
			c.providers = buildProviders(cfg, c.logger)
		}
		cache := categorizer.NewCache(cfg.AI.CacheTTL(), nil)
		c.ai = categorizer.NewAICategorizer(c.providers, cache, categorizer.AIConfig{
			BatchSize:         cfg.AI.BatchSize,
			PreferredProvider: cfg.AI.PreferredProvider,
		}, c.logger)
		if p := c.ai.ActiveProvider(); p != nil {
			c.logger.Info("AI categorization enabled", logging.F(logging.FieldProvider, p.Name()))
		} else {
			c.logger.Info("AI categorization enabled but no provider has an API key")
		}
	} else {
		c.logger.Info("AI categorization disabled")
	}

	c.categorizer = categorizer.NewCategorizer(mapper, c.ai, c.logger)
	c.registry = factory.NewRegistry(c.logger)

	c.logger.Debug("Container initialized successfully",
		logging.F("statement_parsers", len(c.registry.Statements(models.FileTypeCSV))+len(c.registry.Statements(models.FileTypePDF))),
		logging.F("ai_enabled", c.ai != nil))
	return c, nil
}

func buildProviders(cfg *config.Config, logger logging.Logger) []categorizer.Provider {
	shared := func(p config.ProviderConfig) categorizer.ProviderConfig {
		return categorizer.ProviderConfig{
			APIKey:            p.APIKey,
			Model:             p.Model,
			BaseURL:           p.BaseURL,
			Timeout:           cfg.AI.Timeout(),
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
		}
	}
	return []categorizer.Provider{
		categorizer.NewGeminiProvider(shared(cfg.AI.Gemini), logger),
		categorizer.NewOpenAIProvider(shared(cfg.AI.OpenAI), logger),
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the keyword + AI categorization chain.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetAICategorizer returns nil when AI is disabled.
func (c *Container) GetAICategorizer() *categorizer.AICategorizer {
	return c.ai
}

// GetStore returns the container's category rule store.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetRegistry returns the detector registry.
func (c *Container) GetRegistry() *parser.Registry {
	return c.registry
}

// GetExtractor returns the PDF text extractor.
func (c *Container) GetExtractor() extractor.PDFExtractor {
	return c.extractor
}

func (c *Container) openDatabase() error {
	c.dbOnce.Do(func() {
		db, err := database.OpenAndMigrate(c.config.Database.Path)
		if err != nil {
			c.dbErr = err
			return
		}
		c.db = db
		c.repos = repository.NewStore(db)
		c.importer = importer.New(c.registry, c.categorizer, c.repos, c.logger,
			importer.WithDescriptionLimit(c.config.Import.DescriptionMaxLen))
		c.logger.Debug("Database ready", logging.F("path", c.config.Database.Path))
	})
	return c.dbErr
}

// GetRepositories opens the database on first use.
func (c *Container) GetRepositories() (*repository.Store, error) {
	if err := c.openDatabase(); err != nil {
		return nil, err
	}
	return c.repos, nil
}

// GetImporter opens the database on first use.
func (c *Container) GetImporter() (*importer.Importer, error) {
	if err := c.openDatabase(); err != nil {
		return nil, err
	}
	return c.importer, nil
}

// Close releases the database and provider clients.
func (c *Container) Close() error {
	var firstErr error
	for _, p := range c.providers {
		if closer, ok := p.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
