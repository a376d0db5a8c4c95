package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

// Fixed sampling parameters of the extraction call.
const (
	Temperature      float32 = 1
	TopP             float32 = 0.95
	TopK             float32 = 64
	MaxOutputTokens  int32   = 1000
	ResponseMIMEType         = "text/plain"
)

// ContentGenerator is the part of *genai.Models the client uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	models  ContentGenerator
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// NewGeminiClient connects to the Gemini API with the key from cfg.
func NewGeminiClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewClient(client.Models, cfg.Model, cfg.LLMTimeout, log), nil
}

func NewClient(models ContentGenerator, model string, timeout time.Duration, log logger.Logger) *GeminiClient {
	return &GeminiClient{
		models:  models,
		model:   model,
		timeout: timeout,
		logger:  log.Named("llm"),
	}
}

func GenerationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(Temperature),
		TopP:             genai.Ptr(TopP),
		TopK:             genai.Ptr(TopK),
		MaxOutputTokens:  MaxOutputTokens,
		ResponseMIMEType: ResponseMIMEType,
	}
}

// ExtractFields sends the résumé text with the extraction instruction in a
// single call and returns the raw response text, which should be a JSON
// object. Parsing is left to the caller. Failures are *ExtractionError.
func (c *GeminiClient) ExtractFields(ctx context.Context, resumeText string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	log := logger.FromContext(ctx, c.logger)

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(BuildPrompt(resumeText)), GenerationConfig())
	if err != nil {
		log.Error("Extraction request failed",
			logger.String("model", c.model),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return "", &ExtractionError{Reason: ReasonRequest, Err: err}
	}

	var out string
	if resp != nil {
		out = resp.Text()
	}
	if strings.TrimSpace(out) == "" {
		log.Warn("Extraction response was empty", logger.String("model", c.model))
		return "", &ExtractionError{Reason: ReasonEmptyResponse, Err: errors.New("no text in response")}
	}

	log.Info("Extraction response received",
		logger.String("model", c.model),
		logger.Int("inputLength", len(resumeText)),
		logger.Int("responseLength", len(out)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
