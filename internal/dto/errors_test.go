package dto

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"data unavailable", ErrDataUnavailable, false},
		{"insufficient history", ErrInsufficientHistory, false},
		{"no articles", ErrNoArticlesFound, false},
		{"rate limited", ErrUpstreamRateLimited, true},
		{"model unavailable", ErrModelUnavailable, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"unknown error", errors.New("connection reset"), true},
		{"wrapped sentinel", fmt.Errorf("fetch AAPL: %w", ErrDataUnavailable), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestSentimentLabelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.5, SentimentPositive},
		{0.11, SentimentPositive},
		{0.1, SentimentNeutral},
		{0, SentimentNeutral},
		{-0.1, SentimentNeutral},
		{-0.11, SentimentNegative},
		{-1, SentimentNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SentimentLabelForScore(tt.score), "score %f", tt.score)
	}
}
