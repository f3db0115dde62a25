package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/pkg/httpclient"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/utils"
)

// NewsRepository retrieves recent headlines mentioning a ticker.
type NewsRepository interface {
	GetRecentArticles(ctx context.Context, ticker string) ([]dto.NewsArticle, error)
}

type newsAPIRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

// NewNewsAPIRepository creates a new instance of newsAPIRepository.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsAPIRepository{
		httpClient: httpclient.New(cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout, ""),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *newsAPIRepository) GetRecentArticles(ctx context.Context, ticker string) ([]dto.NewsArticle, error) {
	if r.cfg.NewsAPI.APIKey == "" {
		return nil, fmt.Errorf("%w: no news api key configured", dto.ErrNoArticlesFound)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -r.cfg.NewsAPI.MaxAgeDays)

	queryParams := map[string]string{
		"q":        ticker,
		"from":     from.Format(utils.DateLayout),
		"to":       to.Format(utils.DateLayout),
		"language": "en",
		"sortBy":   "relevancy",
		"pageSize": fmt.Sprintf("%d", r.cfg.NewsAPI.MaxArticles),
		"apiKey":   r.cfg.NewsAPI.APIKey,
	}

	var newsResp dto.NewsAPIResponse
	resp, err := r.httpClient.Get(ctx, "/everything", queryParams, nil, &newsResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: news api throttled request for %s", dto.ErrUpstreamRateLimited, ticker)
	case resp.StatusCode != http.StatusOK:
		r.logger.ErrorContext(ctx, "NewsAPI returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("code", newsResp.Code),
			logger.StringField("message", newsResp.Message))
		return nil, fmt.Errorf("news api returned status %d: %s", resp.StatusCode, newsResp.Message)
	}

	// Dedupe by title, keep upstream relevancy order
	seen := make(map[string]bool, len(newsResp.Articles))
	articles := make([]dto.NewsArticle, 0, len(newsResp.Articles))
	for _, a := range newsResp.Articles {
		if a.Title == "" || seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		articles = append(articles, dto.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
		if len(articles) >= r.cfg.NewsAPI.MaxArticles {
			break
		}
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: no recent headlines for %s", dto.ErrNoArticlesFound, ticker)
	}

	return articles, nil
}
