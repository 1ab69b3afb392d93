package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-3.5-turbo"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// MaxSummaryTokens bounds the generated summary length
	MaxSummaryTokens = 500

	// NoSummaryFallback is returned when the service produces empty content
	NoSummaryFallback = "No summary generated."

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"

	summarySystemPrompt = "You are a helpful assistant that summarizes todo lists."
)

// OpenAIProvider implements the SummaryProvider interface using OpenAI's API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// SummarizeTodos generates a summary of the pending todo titles. The result
// is the model output verbatim, or NoSummaryFallback when the service returns
// empty content. Failures are single-attempt: there is no retry here.
func (p *OpenAIProvider) SummarizeTodos(ctx context.Context, titles []string) (string, error) {
	if len(titles) == 0 {
		return "", ErrNoPendingTodos
	}

	prompt := buildSummaryPrompt(titles)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(summarySystemPrompt),
		openai.UserMessage(prompt),
	}

	req := openai.ChatCompletionNewParams{
		Model:     shared.ChatModel(p.model),
		Messages:  messages,
		MaxTokens: openai.Int(MaxSummaryTokens),
		// Temperature omitted - use model default to avoid "unsupported_value"
		// errors on models that only support their default
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "summarize_todos"),
			zap.String("model", p.model),
			zap.Int("todo_count", len(titles)),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)

	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "summarize_todos"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("failed to generate summary: %w", apiErr)
		}
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(ErrNoChoicesInResponse)
	}

	content := resp.Choices[0].Message.Content

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "summarize_todos"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	if content == "" {
		return NoSummaryFallback, nil
	}

	return content, nil
}

// buildSummaryPrompt embeds the pending titles as a bulleted list in the
// instructional template
func buildSummaryPrompt(titles []string) string {
	var list strings.Builder
	for i, title := range titles {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString("- ")
		list.WriteString(title)
	}

	return fmt.Sprintf(`I have the following pending tasks:

%s

Please provide a concise summary of these tasks, grouping related items if possible.
Also, suggest a priority order based on what seems most important.`, list.String())
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (SummaryProvider, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}

		model := config["model"]
		baseURL := config["base_url"]
		if baseURL == "" {
			baseURL = DefaultOpenAIBaseURL
		}

		return NewOpenAIProviderWithLogger(apiKey, baseURL, model, nil, false), nil
	})
}
