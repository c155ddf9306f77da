package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fjacquet/statement-import/internal/models"

	"golang.org/x/time/rate"
)

// BatchItem is one transaction as sent to a provider. ID is only
// meaningful within a single call.
type BatchItem struct {
	ID          int              `json:"id"`
	Direction   models.Direction `json:"direction"`
	Description string           `json:"description"`
}

// Provider is a language-model backend. Implementations differ only in
// the request and response shape; validation is done by the caller.
type Provider interface {
	Name() string
	IsAvailable() bool
	Categorize(ctx context.Context, batch []BatchItem, known map[models.Direction][]string) (map[int]string, error)
}

// ProviderConfig holds the settings shared by all providers.
type ProviderConfig struct {
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
	// BaseURL overrides the API endpoint where the SDK allows it.
	BaseURL string
}

const defaultProviderTimeout = 30 * time.Second

func (c ProviderConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultProviderTimeout
	}
	return c.Timeout
}

// newLimiter spaces requests evenly; zero or less means unlimited.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

const systemPrompt = "You categorize Russian bank transactions. " +
	"Answer with JSON only, no Markdown, in the form " +
	`{"categories":[{"id":1,"category":"..."}]}` + ". " +
	"Use exactly one category name from the list for the transaction's direction."

// buildPrompt renders the batch and the allowed vocabulary.
func buildPrompt(batch []BatchItem, known map[models.Direction][]string) string {
	var b strings.Builder
	b.WriteString("Categories for EXPENSE: ")
	b.WriteString(strings.Join(known[models.DirectionExpense], "; "))
	b.WriteString("\nCategories for INCOME: ")
	b.WriteString(strings.Join(known[models.DirectionIncome], "; "))
	b.WriteString("\nTransactions:\n")
	payload, _ := json.Marshal(batch)
	b.Write(payload)
	return b.String()
}

type categoryAnswer struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
}

// parseCategories accepts the requested object form, a bare array of
// answers, or an object keyed by id.
func parseCategories(text string) (map[int]string, error) {
	text = cleanJSONResponse(text)
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var wrapped struct {
		Categories []categoryAnswer `json:"categories"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.Categories != nil {
		return answersToMap(wrapped.Categories), nil
	}

	var list []categoryAnswer
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return answersToMap(list), nil
	}

	var byID map[string]string
	if err := json.Unmarshal([]byte(text), &byID); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	out := make(map[int]string, len(byID))
	for k, v := range byID {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out, nil
}

func answersToMap(answers []categoryAnswer) map[int]string {
	out := make(map[int]string, len(answers))
	for _, a := range answers {
		out[a.ID] = a.Category
	}
	return out
}

// cleanJSONResponse strips Markdown code fences models add despite being
// told not to.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
