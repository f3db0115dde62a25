package service

import (
	"stock-agent/config"
	"stock-agent/internal/repository"
	"stock-agent/pkg/cache"
	"stock-agent/pkg/logger"
)

type Service struct {
	PriceStoreService PriceStoreService
	SignalService     SignalService
	BacktestService   BacktestService
	ForecastService   ForecastService
	SentimentService  SentimentService
	AgentService      AgentService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	priceStoreService := NewPriceStoreService(cfg, log, repo.StockDataRepo, inmemoryCache)
	signalService := NewSignalService(cfg, log)
	backtestService := NewBacktestService(cfg, log)
	forecastService := NewForecastService(cfg, log, priceStoreService)
	sentimentService := NewSentimentService(cfg, log, repo.NewsRepo, repo.AIRepo)
	agentService := NewAgentService(cfg, log, repo.AIRepo, priceStoreService, signalService, backtestService, forecastService, sentimentService)

	return &Service{
		PriceStoreService: priceStoreService,
		SignalService:     signalService,
		BacktestService:   backtestService,
		ForecastService:   forecastService,
		SentimentService:  sentimentService,
		AgentService:      agentService,
	}
}
