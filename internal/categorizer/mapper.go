package categorizer

import (
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

type rule struct {
	category string
	keywords []string
}

// Mapper is the deterministic keyword classifier. It is safe for
// concurrent use: rules are fixed at construction.
type Mapper struct {
	rules  map[models.Direction][]rule
	logger logging.Logger
}

// NewMapper loads rules from store, falling back to DefaultRules when the
// store is nil, fails or holds no rules.
func NewMapper(store CategoryStoreInterface, logger logging.Logger) *Mapper {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	cfg := DefaultRules()
	if store != nil {
		loaded, err := store.LoadCategories()
		switch {
		case err != nil:
			logger.WithError(err).Warn("Failed to load category rules, using built-in rules")
		case loaded.Empty():
			logger.Debug("No category rules configured, using built-in rules")
		default:
			cfg = loaded
		}
	}
	return NewMapperWithRules(cfg, logger)
}

// NewMapperWithRules compiles cfg. Rules naming a category outside the
// direction's vocabulary are dropped with a warning.
func NewMapperWithRules(cfg models.CategoriesConfig, logger logging.Logger) *Mapper {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	m := &Mapper{rules: make(map[models.Direction][]rule), logger: logger}
	for _, d := range []models.Direction{models.DirectionExpense, models.DirectionIncome} {
		for _, cc := range cfg.Rules(d) {
			if !models.IsKnownCategory(d, cc.Name) {
				logger.Warn("Ignoring rule for unknown category",
					logging.F(logging.FieldCategory, cc.Name),
					logging.F(logging.FieldDirection, string(d)))
				continue
			}
			r := rule{category: cc.Name}
			for _, k := range cc.Keywords {
				if k = normalize(k); k != "" {
					r.keywords = append(r.keywords, k)
				}
			}
			m.rules[d] = append(m.rules[d], r)
		}
	}
	return m
}

// MapCategory returns the first matching rule's category with high
// confidence, or the direction's default with low confidence.
func (m *Mapper) MapCategory(description string, direction models.Direction) models.CategorizationResult {
	text := normalize(description)
	if text != "" {
		for _, r := range m.rules[direction] {
			for _, k := range r.keywords {
				if strings.Contains(text, k) {
					return models.CategorizationResult{Category: r.category, Confidence: models.ConfidenceHigh}
				}
			}
		}
	}
	return models.CategorizationResult{Category: models.DefaultCategory(direction), Confidence: models.ConfidenceLow}
}

// normalize lower-cases, collapses whitespace and folds ё into е so that
// both spellings of a merchant match.
func normalize(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.ReplaceAll(s, "ё", "е")
}
