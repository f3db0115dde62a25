package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"stock-agent/internal/dto"
)

func (r *geminiAIRepository) promptFuseSentiment(ticker string, articles []dto.NewsArticle) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"You are a financial news analyst. Below are recent headlines mentioning the stock %s.\n\n", ticker))

	sb.WriteString(`### Task:
1. Read every headline and snippet, including ones that contradict each other.
2. Weigh conflicting headlines against each other instead of averaging blindly: a concrete earnings or guidance story outweighs vague commentary.
3. Produce ONE aggregate sentiment score between -1.0 (very negative) and 1.0 (very positive) for the stock.
4. Write a short rationale (2-3 sentences) naming the headlines that drove the score.
`)

	sb.WriteString(`
### Output format (strict JSON, no extra text):
{
  "overall_sentiment": 0.0,
  "reasoning": "why the score landed where it did"
}
`)

	articlesJSON, err := json.Marshal(articles)
	if err != nil {
		return "", err
	}

	sb.WriteString("\n### Headlines:\n")
	sb.Write(articlesJSON)

	return sb.String(), nil
}

func (r *geminiAIRepository) promptPlanTools(query string) string {
	var sb strings.Builder

	sb.WriteString("You are the planner of a stock analysis system. Map the user's question to the analysis tools that answer it.\n\n")

	sb.WriteString(`### Available tools (the only valid values):
- "price_data":  historical prices and MACD indicator series
- "signals":     MACD crossover buy/sell events
- "backtest":    simulated performance of trading those events
- "forecast":    7-day price forecast from a trained model
- "sentiment":   news sentiment score with rationale

### Rules:
1. Extract the stock ticker symbol from the question. If none is present, use an empty string.
2. Pick ONLY the tools needed to answer the question; for a broad "how is X doing" style question pick all of them.
3. period is one of 1d,5d,1w,1m,3m,6m,1y,2y,5y,max and interval one of 1m,5m,15m,30m,1h,1d,1wk,1mo. Default to "1y" and "1d" when the question does not say.
`)

	sb.WriteString(`
### Output format (strict JSON, no extra text):
{
  "ticker": "AAPL",
  "period": "1y",
  "interval": "1d",
  "tools": ["price_data", "signals"]
}
`)

	sb.WriteString("\n### Question:\n")
	sb.WriteString(query)

	return sb.String()
}

func (r *geminiAIRepository) promptSynthesize(query string, calls []dto.ToolCall) (string, error) {
	var sb strings.Builder

	sb.WriteString("You are a stock analysis assistant. Answer the user's question using ONLY the tool outputs below.\n\n")

	sb.WriteString(`### Rules:
1. Be concise and concrete: cite the numbers the tools produced.
2. If a tool failed, do not speculate about what it would have said.
3. Do not give financial advice; describe what the data shows.
4. Answer in plain prose, no JSON, no markdown headers.
`)

	sb.WriteString("\n### Question:\n")
	sb.WriteString(query)

	callsJSON, err := json.Marshal(calls)
	if err != nil {
		return "", err
	}

	sb.WriteString("\n\n### Tool outputs:\n")
	sb.Write(callsJSON)

	return sb.String(), nil
}
