package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/internal/repository"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/retry"
	"stock-agent/pkg/utils"
)

// AgentService is the orchestrator: it plans which analysis tools answer a
// query, executes them, and synthesizes one answer from the survivors.
type AgentService interface {
	Chat(ctx context.Context, query string) (*dto.ChatResponse, error)
}

type agentService struct {
	cfg         *config.Config
	log         *logger.Logger
	aiRepo      repository.AIRepository
	priceStore  PriceStoreService
	signal      SignalService
	backtest    BacktestService
	forecast    ForecastService
	sentiment   SentimentService
	retryPolicy retry.Policy
}

func NewAgentService(
	cfg *config.Config,
	log *logger.Logger,
	aiRepo repository.AIRepository,
	priceStore PriceStoreService,
	signal SignalService,
	backtest BacktestService,
	forecast ForecastService,
	sentiment SentimentService,
) AgentService {
	policy := retry.NewPolicy(cfg.Retry.MaxAttempts, cfg.Retry.InitialInterval, cfg.Retry.MaxInterval).
		WithRetryable(dto.IsRetryable)

	return &agentService{
		cfg:         cfg,
		log:         log,
		aiRepo:      aiRepo,
		priceStore:  priceStore,
		signal:      signal,
		backtest:    backtest,
		forecast:    forecast,
		sentiment:   sentiment,
		retryPolicy: policy,
	}
}

// Chat runs one request through Planning -> Executing -> Synthesizing. A
// failed tool is recorded in the trace and excluded from synthesis; the
// request only fails as a whole when every planned tool fails.
func (s *agentService) Chat(ctx context.Context, query string) (*dto.ChatResponse, error) {
	plan := s.plan(ctx, query)
	if plan.Ticker == "" {
		return nil, fmt.Errorf("%w: could not determine a ticker from the query", dto.ErrDataUnavailable)
	}

	s.log.InfoContext(ctx, "Agent plan ready",
		logger.StringField("ticker", plan.Ticker),
		logger.Field("tools", plan.Tools),
	)

	trace := s.execute(ctx, plan)

	succeeded := 0
	for _, call := range trace {
		if call.Error == "" {
			succeeded++
		}
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("all planned tools failed for %s", plan.Ticker)
	}

	answer := s.synthesize(ctx, query, plan, trace)

	return &dto.ChatResponse{Answer: answer, Trace: trace}, nil
}

// plan maps the query to an ordered tool subset, asking the model first and
// falling back to keyword heuristics when it is unavailable. Single pass: the
// plan is never revised mid-execution.
func (s *agentService) plan(ctx context.Context, query string) dto.ToolPlan {
	aiPlan, err := s.aiRepo.PlanTools(ctx, query)
	if err != nil {
		s.log.WarnContext(ctx, "Model planning unavailable, using heuristic planner", logger.ErrorField(err))
		return s.heuristicPlan(query)
	}

	plan := dto.ToolPlan{
		Ticker:   strings.ToUpper(strings.TrimSpace(aiPlan.Ticker)),
		Period:   aiPlan.Period,
		Interval: aiPlan.Interval,
	}
	for _, name := range aiPlan.Tools {
		tool := dto.AgentTool(name)
		if dto.ValidTool(tool) {
			plan.Tools = append(plan.Tools, tool)
		}
	}

	if plan.Ticker == "" || len(plan.Tools) == 0 {
		fallback := s.heuristicPlan(query)
		if plan.Ticker == "" {
			plan.Ticker = fallback.Ticker
		}
		if len(plan.Tools) == 0 {
			plan.Tools = fallback.Tools
		}
	}
	if !utils.ContainsString(utils.ValidPeriods(), plan.Period) {
		plan.Period = s.cfg.Agent.DefaultPeriod
	}
	if !utils.ContainsString(utils.ValidIntervals(), plan.Interval) {
		plan.Interval = s.cfg.Agent.DefaultInterval
	}

	return plan
}

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Words that look like tickers but never are in a question.
var tickerStopWords = map[string]bool{
	"A": true, "I": true, "IS": true, "THE": true, "AND": true, "FOR": true,
	"BUY": true, "SELL": true, "HOLD": true, "ETF": true, "USD": true, "OK": true,
}

func (s *agentService) heuristicPlan(query string) dto.ToolPlan {
	plan := dto.ToolPlan{
		Period:   s.cfg.Agent.DefaultPeriod,
		Interval: s.cfg.Agent.DefaultInterval,
	}

	for _, candidate := range tickerPattern.FindAllString(query, -1) {
		if !tickerStopWords[candidate] {
			plan.Ticker = candidate
			break
		}
	}

	lower := strings.ToLower(query)
	keywordTools := []struct {
		keywords []string
		tool     dto.AgentTool
	}{
		{[]string{"price", "chart", "history", "trend"}, dto.ToolPriceData},
		{[]string{"signal", "crossover", "buy", "sell", "macd"}, dto.ToolSignals},
		{[]string{"backtest", "performance", "profit", "return", "strategy"}, dto.ToolBacktest},
		{[]string{"forecast", "predict", "future", "next week"}, dto.ToolForecast},
		{[]string{"news", "sentiment", "headline", "feel"}, dto.ToolSentiment},
	}
	for _, kt := range keywordTools {
		for _, kw := range kt.keywords {
			if strings.Contains(lower, kw) {
				plan.Tools = append(plan.Tools, kt.tool)
				break
			}
		}
	}

	// Broad questions get the full analysis
	if len(plan.Tools) == 0 {
		plan.Tools = dto.AllTools()
	}

	return plan
}

// execute fans the planned tools out concurrently. Tools have no
// interdependency beyond the price series, and the price store's
// single-flight collapses the shared fetch, so each tool runs on its own
// goroutine with its own timeout and bounded retry.
func (s *agentService) execute(ctx context.Context, plan dto.ToolPlan) []dto.ToolCall {
	trace := make([]dto.ToolCall, len(plan.Tools))

	var wg sync.WaitGroup
	for i, tool := range plan.Tools {
		wg.Add(1)
		go func(i int, tool dto.AgentTool) {
			defer wg.Done()

			toolCtx, cancel := context.WithTimeout(ctx, s.cfg.Agent.ToolTimeout)
			defer cancel()

			call := dto.ToolCall{
				Tool:  tool,
				Input: fmt.Sprintf("%s %s/%s", plan.Ticker, plan.Period, plan.Interval),
			}

			var output interface{}
			err := s.retryPolicy.Do(toolCtx, func() error {
				var invokeErr error
				output, invokeErr = s.invokeTool(toolCtx, tool, plan)
				return invokeErr
			})
			if err != nil {
				s.log.WarnContext(ctx, "Tool failed, excluding from synthesis",
					logger.StringField("tool", string(tool)), logger.ErrorField(err))
				call.Error = err.Error()
			} else {
				call.Output = output
			}

			trace[i] = call
		}(i, tool)
	}
	wg.Wait()

	return trace
}

// invokeTool dispatches one member of the closed tool set.
func (s *agentService) invokeTool(ctx context.Context, tool dto.AgentTool, plan dto.ToolPlan) (interface{}, error) {
	switch tool {
	case dto.ToolPriceData:
		series, err := s.priceStore.GetSeries(ctx, plan.Ticker, plan.Period, plan.Interval)
		if err != nil {
			return nil, err
		}
		last := series.LastBar()
		first := series.Bars[0]
		return map[string]interface{}{
			"ticker":     series.Ticker,
			"bars":       len(series.Bars),
			"first_date": first.Date.Format(utils.DateLayout),
			"last_date":  last.Date.Format(utils.DateLayout),
			"last_close": last.Close,
			"change_pct": (last.Close - first.Close) / first.Close * 100,
		}, nil

	case dto.ToolSignals:
		series, err := s.priceStore.GetSeries(ctx, plan.Ticker, plan.Period, plan.Interval)
		if err != nil {
			return nil, err
		}
		_, events := s.signal.Compute(series)
		return summarizeSignals(events), nil

	case dto.ToolBacktest:
		series, err := s.priceStore.GetSeries(ctx, plan.Ticker, plan.Period, plan.Interval)
		if err != nil {
			return nil, err
		}
		_, events := s.signal.Compute(series)
		return s.backtest.Simulate(events, series, s.cfg.Backtest.InitialCapital, s.cfg.Backtest.FeeRate), nil

	case dto.ToolForecast:
		return s.forecast.Predict(ctx, plan.Ticker)

	case dto.ToolSentiment:
		return s.sentiment.Analyze(ctx, plan.Ticker)

	default:
		return nil, fmt.Errorf("unknown tool: %s", tool)
	}
}

func summarizeSignals(events []dto.SignalEvent) map[string]interface{} {
	buys, sells := 0, 0
	var lastBuy, lastSell *dto.SignalEvent
	for i := range events {
		switch events[i].Kind {
		case dto.SignalBuy:
			buys++
			lastBuy = &events[i]
		case dto.SignalSell:
			sells++
			lastSell = &events[i]
		}
	}

	summary := map[string]interface{}{
		"buy_count":  buys,
		"sell_count": sells,
	}
	if lastBuy != nil {
		summary["last_buy"] = dto.SignalPoint{Date: lastBuy.Date.Format(utils.DateTimeLayout), Price: lastBuy.Price}
	}
	if lastSell != nil {
		summary["last_sell"] = dto.SignalPoint{Date: lastSell.Date.Format(utils.DateTimeLayout), Price: lastSell.Price}
	}
	return summary
}

// synthesize merges successful tool outputs into one answer, falling back to
// a deterministic summary when the model is unavailable.
func (s *agentService) synthesize(ctx context.Context, query string, plan dto.ToolPlan, trace []dto.ToolCall) string {
	successful := make([]dto.ToolCall, 0, len(trace))
	for _, call := range trace {
		if call.Error == "" {
			successful = append(successful, call)
		}
	}

	answer, err := s.aiRepo.Synthesize(ctx, query, successful)
	if err == nil && answer != "" {
		return answer
	}
	if err != nil && !errors.Is(err, dto.ErrModelUnavailable) {
		s.log.WarnContext(ctx, "Synthesis failed, using fallback summary", logger.ErrorField(err))
	}

	return s.fallbackAnswer(plan, successful)
}

func (s *agentService) fallbackAnswer(plan dto.ToolPlan, calls []dto.ToolCall) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analysis for %s:\n", plan.Ticker))

	for _, call := range calls {
		switch out := call.Output.(type) {
		case *dto.BacktestResult:
			sb.WriteString(fmt.Sprintf(
				"- Backtest: total profit %.2f (ROI %.2f%%), win rate %.1f%% over %d trades.\n",
				out.TotalProfit, out.ROI, out.WinRate, out.NumTrades))
		case *dto.ForecastResult:
			if len(out.Predictions) > 0 {
				sb.WriteString(fmt.Sprintf(
					"- Forecast: %.2f by %s.\n",
					out.Predictions[len(out.Predictions)-1], out.PredictionDates[len(out.PredictionDates)-1]))
			}
		case *dto.SentimentResult:
			sb.WriteString(fmt.Sprintf(
				"- News sentiment: %s (%.2f). %s\n",
				out.SentimentLabel, out.OverallSentiment, out.Reasoning))
		case map[string]interface{}:
			sb.WriteString(fmt.Sprintf("- %s: %v\n", call.Tool, out))
		}
	}

	return sb.String()
}
