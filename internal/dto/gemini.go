package dto

// AISentimentResponse is the strict JSON shape the sentiment fusion prompt
// asks the model for.
type AISentimentResponse struct {
	OverallSentiment float64 `json:"overall_sentiment"`
	Reasoning        string  `json:"reasoning"`
}

// AIPlanResponse is the strict JSON shape the planning prompt asks for.
type AIPlanResponse struct {
	Ticker   string   `json:"ticker"`
	Period   string   `json:"period"`
	Interval string   `json:"interval"`
	Tools    []string `json:"tools"`
}

type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}
