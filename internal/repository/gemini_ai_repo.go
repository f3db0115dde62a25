package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/pkg/httpclient"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository is the text-understanding backend used for sentiment fusion,
// tool planning and answer synthesis.
type AIRepository interface {
	FuseSentiment(ctx context.Context, ticker string, articles []dto.NewsArticle) (*dto.AISentimentResponse, error)
	PlanTools(ctx context.Context, query string) (*dto.AIPlanResponse, error)
	Synthesize(ctx context.Context, query string, calls []dto.ToolCall) (string, error)
}

// geminiAIRepository implements AIRepository on the Google Gemini API.
type geminiAIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository. A
// missing API key is not a construction error; calls then fail with
// ErrModelUnavailable and the services degrade per their own policy.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	repo := &geminiAIRepository{
		httpClient:     httpclient.New("https://generativelanguage.googleapis.com/v1beta/models", cfg.Gemini.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}

	if cfg.Gemini.APIKey == "" {
		log.Warn("No Gemini API key configured, AI features will degrade")
		return repo, nil
	}

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	repo.genAiClient = genAiClient

	return repo, nil
}

func (r *geminiAIRepository) FuseSentiment(ctx context.Context, ticker string, articles []dto.NewsArticle) (*dto.AISentimentResponse, error) {
	prompt, err := r.promptFuseSentiment(ticker, articles)
	if err != nil {
		return nil, fmt.Errorf("failed to build sentiment prompt: %w", err)
	}

	var result dto.AISentimentResponse
	if err := r.generate(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) PlanTools(ctx context.Context, query string) (*dto.AIPlanResponse, error) {
	prompt := r.promptPlanTools(query)

	var result dto.AIPlanResponse
	if err := r.generate(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) Synthesize(ctx context.Context, query string, calls []dto.ToolCall) (string, error) {
	prompt, err := r.promptSynthesize(query, calls)
	if err != nil {
		return "", fmt.Errorf("failed to build synthesis prompt: %w", err)
	}

	resp, err := r.sendRequest(ctx, prompt)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content in synthesis response", dto.ErrModelUnavailable)
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

// generate sends the prompt and unmarshals the model's JSON reply into dest.
func (r *geminiAIRepository) generate(ctx context.Context, prompt string, dest interface{}) error {
	resp, err := r.sendRequest(ctx, prompt)
	if err != nil {
		return err
	}
	if err := r.parseResponse(resp, dest); err != nil {
		r.logger.ErrorContext(ctx, "failed to parse response from gemini", logger.ErrorField(err))
		return fmt.Errorf("%w: unparseable model response: %v", dto.ErrModelUnavailable, err)
	}
	return nil
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	if r.genAiClient == nil {
		return nil, fmt.Errorf("%w: gemini client not configured", dto.ErrModelUnavailable)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count tokens: %v", dto.ErrModelUnavailable, err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}
	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.Gemini.BaseModel, r.cfg.Gemini.APIKey)

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &geminiAPIResponse)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request to gemini: %v", dto.ErrModelUnavailable, err)
	}

	switch {
	case geminiResp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: gemini throttled request", dto.ErrUpstreamRateLimited)
	case geminiResp.StatusCode != http.StatusOK:
		r.logger.ErrorContext(ctx, "failed to get data from gemini", logger.IntField("status_code", geminiResp.StatusCode))
		return nil, fmt.Errorf("%w: gemini returned status %d", dto.ErrModelUnavailable, geminiResp.StatusCode)
	}

	return &geminiAPIResponse, nil
}

func (r *geminiAIRepository) parseResponse(response *dto.GeminiAPIResponse, dest interface{}) error {
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := response.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	return json.Unmarshal([]byte(jsonString), dest)
}
