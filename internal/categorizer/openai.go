package categorizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	openai "github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider categorizes through the OpenAI chat completions API.
type OpenAIProvider struct {
	cfg     ProviderConfig
	limiter *rate.Limiter
	logger  logging.Logger

	once   sync.Once
	client openai.Client
}

// NewOpenAIProvider returns a provider; it is unavailable without an API key.
func NewOpenAIProvider(cfg ProviderConfig, logger logging.Logger) *OpenAIProvider {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	return &OpenAIProvider{
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
		logger:  logger.WithField(logging.FieldProvider, "openai"),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// IsAvailable reports whether an API key is configured.
func (p *OpenAIProvider) IsAvailable() bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

func (p *OpenAIProvider) ensureClient() {
	p.once.Do(func() {
		opts := []oaioption.RequestOption{
			oaioption.WithAPIKey(p.cfg.APIKey),
			oaioption.WithMaxRetries(1),
		}
		if p.cfg.BaseURL != "" {
			opts = append(opts, oaioption.WithBaseURL(p.cfg.BaseURL))
		}
		p.client = openai.NewClient(opts...)
	})
}

// Categorize sends one batch and returns the raw answers by id.
func (p *OpenAIProvider) Categorize(ctx context.Context, batch []BatchItem, known map[models.Direction][]string) (map[int]string, error) {
	if !p.IsAvailable() {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderUnavailable}
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: err}
	}
	p.ensureClient()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(batch, known)),
		},
	})
	if err != nil {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &parsererror.ProviderError{
			Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: fmt.Errorf("empty response"),
		}
	}

	answers, err := parseCategories(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &parsererror.ProviderError{Provider: p.Name(), Kind: parsererror.ErrProviderCallFailed, Err: err}
	}
	p.logger.Debug("OpenAI batch categorized",
		logging.F(logging.FieldBatch, len(batch)),
		logging.F(logging.FieldCount, len(answers)))
	return answers, nil
}
