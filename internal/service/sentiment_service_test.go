package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stock-agent/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func someArticles(n int) []dto.NewsArticle {
	out := make([]dto.NewsArticle, n)
	for i := range out {
		out[i] = dto.NewsArticle{
			Title:  fmt.Sprintf("Headline %d", i),
			URL:    fmt.Sprintf("https://example.com/%d", i),
			Source: "Example Wire",
		}
	}
	return out
}

func TestSentimentService_Analyze(t *testing.T) {
	tests := []struct {
		name      string
		news      *fakeNewsRepo
		ai        *fakeAIRepo
		wantScore float64
		wantLabel string
	}{
		{
			name: "positive fusion",
			news: &fakeNewsRepo{articles: someArticles(3)},
			ai:   &fakeAIRepo{sentiment: &dto.AISentimentResponse{OverallSentiment: 0.6, Reasoning: "strong earnings"}},

			wantScore: 0.6,
			wantLabel: dto.SentimentPositive,
		},
		{
			name: "score above one is clamped",
			news: &fakeNewsRepo{articles: someArticles(2)},
			ai:   &fakeAIRepo{sentiment: &dto.AISentimentResponse{OverallSentiment: 3.5, Reasoning: "overshoot"}},

			wantScore: 1,
			wantLabel: dto.SentimentPositive,
		},
		{
			name: "score below minus one is clamped",
			news: &fakeNewsRepo{articles: someArticles(2)},
			ai:   &fakeAIRepo{sentiment: &dto.AISentimentResponse{OverallSentiment: -2, Reasoning: "undershoot"}},

			wantScore: -1,
			wantLabel: dto.SentimentNegative,
		},
		{
			name: "boundary score stays neutral",
			news: &fakeNewsRepo{articles: someArticles(2)},
			ai:   &fakeAIRepo{sentiment: &dto.AISentimentResponse{OverallSentiment: 0.1, Reasoning: "mixed"}},

			wantScore: 0.1,
			wantLabel: dto.SentimentNeutral,
		},
		{
			name: "no articles degrades to neutral",
			news: &fakeNewsRepo{err: dto.ErrNoArticlesFound},
			ai:   &fakeAIRepo{},

			wantScore: 0,
			wantLabel: dto.SentimentNeutral,
		},
		{
			name: "news outage degrades to neutral",
			news: &fakeNewsRepo{err: errors.New("connection reset")},
			ai:   &fakeAIRepo{},

			wantScore: 0,
			wantLabel: dto.SentimentNeutral,
		},
		{
			name: "model outage degrades to neutral",
			news: &fakeNewsRepo{articles: someArticles(4)},
			ai:   &fakeAIRepo{sentimentErr: dto.ErrModelUnavailable},

			wantScore: 0,
			wantLabel: dto.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSentimentService(testConfig(), testLogger(), tt.news, tt.ai)

			res, err := svc.Analyze(context.Background(), "AAPL")
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, res.OverallSentiment, 1e-9)
			assert.Equal(t, tt.wantLabel, res.SentimentLabel)
			assert.NotEmpty(t, res.Reasoning)
		})
	}
}

func TestSentimentService_Analyze_ModelOutageKeepsArticles(t *testing.T) {
	news := &fakeNewsRepo{articles: someArticles(8)}
	ai := &fakeAIRepo{sentimentErr: dto.ErrModelUnavailable}
	svc := NewSentimentService(testConfig(), testLogger(), news, ai)

	res, err := svc.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 8, res.NumArticles)
	assert.Len(t, res.Articles, maxArticlesInResult)
}

func TestSentimentService_Analyze_CapsReturnedArticles(t *testing.T) {
	news := &fakeNewsRepo{articles: someArticles(9)}
	ai := &fakeAIRepo{sentiment: &dto.AISentimentResponse{OverallSentiment: 0.2, Reasoning: "ok"}}
	svc := NewSentimentService(testConfig(), testLogger(), news, ai)

	res, err := svc.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 9, res.NumArticles)
	assert.Len(t, res.Articles, maxArticlesInResult)
}
