package dto

// AgentTool names one capability the orchestrator can invoke. The set is
// closed; planning only selects among these.
type AgentTool string

const (
	ToolPriceData AgentTool = "price_data"
	ToolSignals   AgentTool = "signals"
	ToolBacktest  AgentTool = "backtest"
	ToolForecast  AgentTool = "forecast"
	ToolSentiment AgentTool = "sentiment"
)

// AllTools returns every tool in invocation-plan order.
func AllTools() []AgentTool {
	return []AgentTool{ToolPriceData, ToolSignals, ToolBacktest, ToolForecast, ToolSentiment}
}

// ValidTool reports whether name is a member of the closed tool set.
func ValidTool(name AgentTool) bool {
	for _, t := range AllTools() {
		if t == name {
			return true
		}
	}
	return false
}

// ToolPlan is the single planning pass output: which tools to run and with
// what shared inputs. The orchestrator never re-plans mid-execution.
type ToolPlan struct {
	Ticker   string      `json:"ticker"`
	Period   string      `json:"period"`
	Interval string      `json:"interval"`
	Tools    []AgentTool `json:"tools"`
}

// ToolCall is one entry of the agent trace.
type ToolCall struct {
	Tool   AgentTool   `json:"tool"`
	Input  string      `json:"input"`
	Output interface{} `json:"output,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type ChatRequest struct {
	Query string `json:"query" validate:"required,min=2"`
}

// ChatResponse is the payload for POST /api/agent/chat.
type ChatResponse struct {
	Answer string     `json:"answer"`
	Trace  []ToolCall `json:"trace,omitempty"`
}
