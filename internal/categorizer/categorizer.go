// Package categorizer assigns categories to parsed transactions: a
// deterministic keyword mapper first, then a language model for whatever
// the mapper is unsure about, with the direction's default as last resort.
package categorizer

import (
	"context"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// Source records which stage produced a category.
type Source string

const (
	SourceKeyword Source = "keyword"
	SourceAI      Source = "ai"
	SourceDefault Source = "default"
)

// Result is the category chosen for one transaction.
type Result struct {
	Category string `json:"category"`
	Source   Source `json:"source"`
}

// Categorizer chains the mapper and the AI categorizer. The AI stage is
// optional; without it low-confidence results keep the default category.
type Categorizer struct {
	mapper *Mapper
	ai     *AICategorizer
	logger logging.Logger
}

// NewCategorizer wires the stages. ai may be nil.
func NewCategorizer(mapper *Mapper, ai *AICategorizer, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if mapper == nil {
		mapper = NewMapperWithRules(DefaultRules(), logger)
	}
	return &Categorizer{mapper: mapper, ai: ai, logger: logger}
}

// Mapper returns the keyword stage.
func (c *Categorizer) Mapper() *Mapper { return c.mapper }

// AI returns the model stage, possibly nil.
func (c *Categorizer) AI() *AICategorizer { return c.ai }

// WithoutAI returns a copy that stops at the keyword stage.
func (c *Categorizer) WithoutAI() *Categorizer {
	return &Categorizer{mapper: c.mapper, logger: c.logger}
}

// mapOne runs the mapper on the description, then on the bank's own label
// when the description alone is inconclusive.
func (c *Categorizer) mapOne(tx models.ParsedTransaction) models.CategorizationResult {
	res := c.mapper.MapCategory(tx.Description, tx.Direction)
	if res.Confidence == models.ConfidenceLow && tx.RawCategory != "" {
		if hint := c.mapper.MapCategory(tx.RawCategory, tx.Direction); hint.Confidence == models.ConfidenceHigh {
			return hint
		}
	}
	return res
}

// CategorizeAll returns one result per transaction, in order, plus the
// per-source breakdown.
func (c *Categorizer) CategorizeAll(ctx context.Context, txs []models.ParsedTransaction) ([]Result, models.CategorizationBreakdown) {
	results := make([]Result, len(txs))
	var low []int
	for i, tx := range txs {
		res := c.mapOne(tx)
		if res.Confidence == models.ConfidenceHigh {
			results[i] = Result{Category: res.Category, Source: SourceKeyword}
			continue
		}
		results[i] = Result{Category: res.Category, Source: SourceDefault}
		low = append(low, i)
	}

	if len(low) > 0 && c.ai != nil && c.ai.IsAvailable() {
		items := make([]Item, len(low))
		for j, i := range low {
			items[j] = Item{Direction: txs[i].Direction, Description: txs[i].Description}
		}
		outcomes := c.ai.CategorizeDetailed(ctx, items)
		for _, i := range low {
			if o, ok := outcomes[CacheKey(txs[i].Direction, txs[i].Description)]; ok && o.FromAI && models.IsKnownCategory(txs[i].Direction, o.Category) {
				results[i] = Result{Category: o.Category, Source: SourceAI}
			}
		}
	}

	var breakdown models.CategorizationBreakdown
	for _, r := range results {
		switch r.Source {
		case SourceKeyword:
			breakdown.ByKeyword++
		case SourceAI:
			breakdown.ByAI++
		default:
			breakdown.ByDefault++
		}
	}
	c.logger.Debug("Categorized transactions",
		logging.F(logging.FieldCount, len(txs)),
		logging.F("by_keyword", breakdown.ByKeyword),
		logging.F("by_ai", breakdown.ByAI),
		logging.F("by_default", breakdown.ByDefault))
	return results, breakdown
}

// CategorizeOne classifies a single description, asking the model only
// when useAI is set and the mapper is unsure.
func (c *Categorizer) CategorizeOne(ctx context.Context, description string, direction models.Direction, useAI bool) Result {
	res := c.mapper.MapCategory(description, direction)
	if res.Confidence == models.ConfidenceHigh {
		return Result{Category: res.Category, Source: SourceKeyword}
	}
	if useAI && c.ai != nil && c.ai.IsAvailable() {
		o := c.ai.CategorizeDetailed(ctx, []Item{{Direction: direction, Description: description}})[CacheKey(direction, description)]
		if o.FromAI {
			return Result{Category: o.Category, Source: SourceAI}
		}
	}
	return Result{Category: res.Category, Source: SourceDefault}
}
