package dto

// Sentiment label thresholds: score > 0.1 positive, score < -0.1 negative.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// SentimentLabelForScore maps a fused score in [-1, 1] to its label.
func SentimentLabelForScore(score float64) string {
	switch {
	case score > 0.1:
		return SentimentPositive
	case score < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// NewsArticle is one headline considered by the sentiment engine.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// NewsAPIResponse is the shape of the NewsAPI /everything endpoint.
type NewsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// SentimentResult is the payload for GET /api/sentiment/:ticker.
type SentimentResult struct {
	OverallSentiment float64       `json:"overall_sentiment"`
	SentimentLabel   string        `json:"sentiment_label"`
	Reasoning        string        `json:"reasoning"`
	NumArticles      int           `json:"num_articles"`
	Articles         []NewsArticle `json:"articles,omitempty"`
}
