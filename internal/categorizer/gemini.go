package categorizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider categorizes through the Google Gemini API.
type GeminiProvider struct {
	cfg     ProviderConfig
	limiter *rate.Limiter
	logger  logging.Logger

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel

	// generate is replaced in tests.
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewGeminiProvider returns a provider; it is unavailable without an API key.
func NewGeminiProvider(cfg ProviderConfig, logger logging.Logger) *GeminiProvider {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	p := &GeminiProvider{
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
		logger:  logger.WithField(logging.FieldProvider, "gemini"),
	}
	p.generate = p.callGemini
	return p
}

func (p *GeminiProvider) Name() string { return "gemini" }

// IsAvailable reports whether an API key is configured.
func (p *GeminiProvider) IsAvailable() bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

// Categorize sends one batch and returns the raw answers by id.
func (p *GeminiProvider) Categorize(ctx context.Context, batch []BatchItem, known map[models.Direction][]string) (map[int]string, error) {
	if !p.IsAvailable() {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderUnavailable}
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	text, err := p.generate(ctx, systemPrompt+"\n\n"+buildPrompt(batch, known))
	if err != nil {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: err}
	}
	answers, err := parseCategories(text)
	if err != nil {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: err}
	}
	p.logger.Debug("Gemini batch categorized",
		logging.F(logging.FieldBatch, len(batch)),
		logging.F(logging.FieldCount, len(answers)))
	return answers, nil
}

func (p *GeminiProvider) ensureModel() (*genai.GenerativeModel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		return p.model, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(p.cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(p.cfg.Model)
	model.SetTemperature(0)
	p.client = client
	p.model = model
	return model, nil
}

func (p *GeminiProvider) callGemini(ctx context.Context, prompt string) (string, error) {
	model, err := p.ensureModel()
	if err != nil {
		return "", err
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// Close releases the underlying client, if one was created.
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client, p.model = nil, nil
	return err
}
