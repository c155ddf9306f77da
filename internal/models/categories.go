package models

// Confidence is the tier attached to a categorization.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// CategorizationResult is the outcome of mapping one description.
type CategorizationResult struct {
	Category   string     `json:"category"`
	Confidence Confidence `json:"confidence"`
}

// Expense categories.
const (
	CategoryGroceries     = "Продукты"
	CategoryRestaurants   = "Кафе и рестораны"
	CategoryTransport     = "Транспорт"
	CategoryTaxi          = "Такси"
	CategoryTelecom       = "Связь и интернет"
	CategoryUtilities     = "Коммунальные платежи"
	CategoryHealth        = "Здоровье"
	CategoryClothing      = "Одежда"
	CategoryEntertainment = "Развлечения"
	CategorySubscriptions = "Подписки"
	CategoryCash          = "Снятие наличных"
	CategoryHome          = "Дом и ремонт"
	CategoryEducation     = "Образование"
	CategoryOtherExpense  = "Прочие расходы"
)

// Income categories.
const (
	CategorySalary      = "Зарплата"
	CategoryCashback    = "Кэшбэк"
	CategoryInterest    = "Проценты"
	CategoryRefund      = "Возврат"
	CategoryOtherIncome = "Прочие доходы"
)

// CategoryTransfers exists for both directions.
const CategoryTransfers = "Переводы"

// Order matters: it is the order presented to AI providers and to users.
var knownCategories = map[Direction][]string{
	DirectionExpense: {
		CategoryGroceries,
		CategoryRestaurants,
		CategoryTransport,
		CategoryTaxi,
		CategoryTelecom,
		CategoryUtilities,
		CategoryHealth,
		CategoryClothing,
		CategoryEntertainment,
		CategorySubscriptions,
		CategoryTransfers,
		CategoryCash,
		CategoryHome,
		CategoryEducation,
		CategoryOtherExpense,
	},
	DirectionIncome: {
		CategorySalary,
		CategoryTransfers,
		CategoryCashback,
		CategoryInterest,
		CategoryRefund,
		CategoryOtherIncome,
	},
}

// KnownCategories returns a copy of the vocabulary for d.
func KnownCategories(d Direction) []string {
	src := knownCategories[d]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultCategory is the placeholder used when nothing better is known.
func DefaultCategory(d Direction) string {
	if d == DirectionIncome {
		return CategoryOtherIncome
	}
	return CategoryOtherExpense
}

// IsKnownCategory reports whether name belongs to the vocabulary of d.
func IsKnownCategory(d Direction, name string) bool {
	for _, c := range knownCategories[d] {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryConfig is one keyword rule. Rules are evaluated in file order and
// the first whose keyword occurs in the description wins.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig is the layout of categories.yaml.
type CategoriesConfig struct {
	Expense []CategoryConfig `yaml:"expense,omitempty"`
	Income  []CategoryConfig `yaml:"income,omitempty"`
}

// Rules returns the rules for d.
func (c CategoriesConfig) Rules(d Direction) []CategoryConfig {
	if d == DirectionIncome {
		return c.Income
	}
	return c.Expense
}

// Empty reports whether no rule is configured for either direction.
func (c CategoriesConfig) Empty() bool {
	return len(c.Expense) == 0 && len(c.Income) == 0
}
