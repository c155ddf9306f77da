package categorizer

import (
	"context"
	"strings"
	"sync"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// DefaultBatchSize is the number of transactions sent per provider call.
const DefaultBatchSize = 100

// Item is one transaction to categorize.
type Item struct {
	Direction   models.Direction `json:"direction"`
	Description string           `json:"description"`
}

// Outcome is the category chosen for one description and whether it came
// from a validated model answer (live or cached).
type Outcome struct {
	Category string
	FromAI   bool
}

// AIStats counts what the categorizer did since construction.
type AIStats struct {
	CacheHits     int
	ProviderCalls int
	FailedBatches int
	Defaulted     int
}

// AIConfig tunes AICategorizer.
type AIConfig struct {
	BatchSize         int
	PreferredProvider string
}

// AICategorizer improves low-confidence results with a language model.
// It never fails: every problem degrades to the direction's default.
type AICategorizer struct {
	providers []Provider
	preferred string
	batchSize int
	cache     *Cache
	logger    logging.Logger

	mu    sync.Mutex
	stats AIStats
}

// NewAICategorizer keeps providers in the given order; the order breaks
// ties when the preferred provider is unavailable. A nil cache gets a
// private one.
func NewAICategorizer(providers []Provider, cache *Cache, cfg AIConfig, logger logging.Logger) *AICategorizer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL, nil)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &AICategorizer{
		providers: providers,
		preferred: strings.ToLower(strings.TrimSpace(cfg.PreferredProvider)),
		batchSize: cfg.BatchSize,
		cache:     cache,
		logger:    logger,
	}
}

// ActiveProvider returns the preferred provider when available, else the
// first available one, else nil.
func (a *AICategorizer) ActiveProvider() Provider {
	var candidates []Provider
	for _, p := range a.providers {
		if p != nil && p.IsAvailable() {
			candidates = append(candidates, p)
		}
	}
	for _, p := range candidates {
		if p.Name() == a.preferred {
			return p
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// IsAvailable reports whether any provider can be called.
func (a *AICategorizer) IsAvailable() bool {
	return a.ActiveProvider() != nil
}

// Cache exposes the shared cache.
func (a *AICategorizer) Cache() *Cache {
	return a.cache
}

// Stats returns a snapshot of the counters.
func (a *AICategorizer) Stats() AIStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// CategorizeTransactions maps each item to a category from the vocabulary
// of its direction. The map is keyed by CacheKey, so case and spacing
// variants of one description share an answer while the same text in both
// directions keeps one entry per direction.
func (a *AICategorizer) CategorizeTransactions(ctx context.Context, items []Item) map[string]string {
	outcomes := a.CategorizeDetailed(ctx, items)
	out := make(map[string]string, len(outcomes))
	for key, o := range outcomes {
		out[key] = o.Category
	}
	return out
}

// CategorizeDetailed is CategorizeTransactions that also reports which
// answers came from the model.
func (a *AICategorizer) CategorizeDetailed(ctx context.Context, items []Item) map[string]Outcome {
	result := make(map[string]Outcome, len(items))
	var pending []Item

	for _, it := range items {
		key := CacheKey(it.Direction, it.Description)
		if _, done := result[key]; done {
			continue
		}
		if cat, ok := a.cache.Get(it.Direction, it.Description); ok {
			result[key] = Outcome{Category: cat, FromAI: true}
			a.count(func(s *AIStats) { s.CacheHits++ })
			continue
		}
		// placeholder until the batch answers
		result[key] = Outcome{Category: models.DefaultCategory(it.Direction)}
		pending = append(pending, it)
	}
	if len(pending) == 0 {
		return result
	}

	provider := a.ActiveProvider()
	if provider == nil {
		a.logger.Debug("No AI provider available, using default categories",
			logging.F(logging.FieldCount, len(pending)))
		a.applyDefaults(result, pending)
		return result
	}

	known := map[models.Direction][]string{
		models.DirectionExpense: models.KnownCategories(models.DirectionExpense),
		models.DirectionIncome:  models.KnownCategories(models.DirectionIncome),
	}
	for start := 0; start < len(pending); start += a.batchSize {
		end := start + a.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		a.runBatch(ctx, provider, pending[start:end], known, result, start/a.batchSize+1)
	}
	return result
}

func (a *AICategorizer) runBatch(ctx context.Context, provider Provider, chunk []Item,
	known map[models.Direction][]string, result map[string]Outcome, batchNo int) {
	batch := make([]BatchItem, len(chunk))
	for i, it := range chunk {
		batch[i] = BatchItem{ID: i + 1, Direction: it.Direction, Description: it.Description}
	}

	a.count(func(s *AIStats) { s.ProviderCalls++ })
	answers, err := provider.Categorize(ctx, batch, known)
	if err != nil {
		a.logger.WithError(err).Warn("AI batch failed, using default categories",
			logging.F(logging.FieldProvider, provider.Name()),
			logging.F(logging.FieldBatch, batchNo),
			logging.F(logging.FieldCount, len(chunk)))
		a.count(func(s *AIStats) { s.FailedBatches++ })
		a.applyDefaults(result, chunk)
		return
	}

	for i, it := range chunk {
		category := strings.TrimSpace(answers[batch[i].ID])
		if !models.IsKnownCategory(it.Direction, category) {
			a.logger.Debug("AI answer outside vocabulary, using default",
				logging.F(logging.FieldCategory, category),
				logging.F(logging.FieldDirection, string(it.Direction)))
			a.applyDefaults(result, chunk[i:i+1])
			continue
		}
		a.cache.Put(it.Direction, it.Description, category)
		result[CacheKey(it.Direction, it.Description)] = Outcome{Category: category, FromAI: true}
	}
}

func (a *AICategorizer) applyDefaults(result map[string]Outcome, items []Item) {
	for _, it := range items {
		result[CacheKey(it.Direction, it.Description)] = Outcome{Category: models.DefaultCategory(it.Direction)}
	}
	a.count(func(s *AIStats) { s.Defaulted += len(items) })
}

func (a *AICategorizer) count(f func(*AIStats)) {
	a.mu.Lock()
	f(&a.stats)
	a.mu.Unlock()
}
