package repository

import (
	"testing"

	"stock-agent/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTextResponse(text string) *dto.GeminiAPIResponse {
	return &dto.GeminiAPIResponse{
		Candidates: []dto.Candidate{
			{Content: dto.Content{Parts: []dto.Part{{Text: text}}}},
		},
	}
}

func TestGeminiParseResponse(t *testing.T) {
	repo := &geminiAIRepository{}

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{
			name: "plain json",
			text: `{"overall_sentiment": 0.4, "reasoning": "solid earnings"}`,
		},
		{
			name: "fenced json",
			text: "```json\n{\"overall_sentiment\": 0.4, \"reasoning\": \"solid earnings\"}\n```",
		},
		{
			name:    "not json",
			text:    "the stock looks good",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest dto.AISentimentResponse
			err := repo.parseResponse(geminiTextResponse(tt.text), &dest)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 0.4, dest.OverallSentiment, 1e-9)
			assert.Equal(t, "solid earnings", dest.Reasoning)
		})
	}
}

func TestGeminiParseResponse_EmptyCandidates(t *testing.T) {
	repo := &geminiAIRepository{}

	var dest dto.AISentimentResponse
	err := repo.parseResponse(&dto.GeminiAPIResponse{}, &dest)
	require.Error(t, err)
}
