package service

import (
	"context"
	"errors"
	"fmt"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/internal/repository"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/retry"
)

const maxArticlesInResult = 5

// SentimentService fuses recent headlines into one bounded sentiment score
// with a rationale. It degrades to a neutral result instead of failing when
// news or the scoring model are unavailable.
type SentimentService interface {
	Analyze(ctx context.Context, ticker string) (*dto.SentimentResult, error)
}

type sentimentService struct {
	cfg         *config.Config
	log         *logger.Logger
	newsRepo    repository.NewsRepository
	aiRepo      repository.AIRepository
	retryPolicy retry.Policy
}

func NewSentimentService(
	cfg *config.Config,
	log *logger.Logger,
	newsRepo repository.NewsRepository,
	aiRepo repository.AIRepository,
) SentimentService {
	policy := retry.NewPolicy(cfg.Retry.MaxAttempts, cfg.Retry.InitialInterval, cfg.Retry.MaxInterval).
		WithRetryable(dto.IsRetryable)

	return &sentimentService{
		cfg:         cfg,
		log:         log,
		newsRepo:    newsRepo,
		aiRepo:      aiRepo,
		retryPolicy: policy,
	}
}

func (s *sentimentService) Analyze(ctx context.Context, ticker string) (*dto.SentimentResult, error) {
	var articles []dto.NewsArticle
	err := s.retryPolicy.Do(ctx, func() error {
		var fetchErr error
		articles, fetchErr = s.newsRepo.GetRecentArticles(ctx, ticker)
		return fetchErr
	})
	if err != nil {
		if errors.Is(err, dto.ErrNoArticlesFound) {
			return neutralResult(fmt.Sprintf("No recent news articles found for %s.", ticker), 0), nil
		}
		s.log.WarnContext(ctx, "News retrieval failed, returning neutral sentiment",
			logger.StringField("ticker", ticker), logger.ErrorField(err))
		return neutralResult(fmt.Sprintf("News retrieval for %s failed; sentiment unavailable.", ticker), 0), nil
	}

	var fused *dto.AISentimentResponse
	err = s.retryPolicy.Do(ctx, func() error {
		var fuseErr error
		fused, fuseErr = s.aiRepo.FuseSentiment(ctx, ticker, articles)
		return fuseErr
	})
	if err != nil {
		s.log.WarnContext(ctx, "Sentiment model unavailable, returning neutral fallback",
			logger.StringField("ticker", ticker), logger.ErrorField(err))
		result := neutralResult(fmt.Sprintf(
			"Scoring model unavailable; %d articles were found for %s but could not be analyzed.",
			len(articles), ticker), len(articles))
		result.Articles = capArticles(articles)
		return result, nil
	}

	score := clampScore(fused.OverallSentiment)

	return &dto.SentimentResult{
		OverallSentiment: score,
		SentimentLabel:   dto.SentimentLabelForScore(score),
		Reasoning:        fused.Reasoning,
		NumArticles:      len(articles),
		Articles:         capArticles(articles),
	}, nil
}

func neutralResult(reasoning string, numArticles int) *dto.SentimentResult {
	return &dto.SentimentResult{
		OverallSentiment: 0,
		SentimentLabel:   dto.SentimentNeutral,
		Reasoning:        reasoning,
		NumArticles:      numArticles,
	}
}

func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

func capArticles(articles []dto.NewsArticle) []dto.NewsArticle {
	if len(articles) > maxArticlesInResult {
		return articles[:maxArticlesInResult]
	}
	return articles
}
