package repository

import (
	"stock-agent/config"
	"stock-agent/pkg/logger"
)

type Repository struct {
	StockDataRepo StockDataRepository
	NewsRepo      NewsRepository
	AIRepo        AIRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) (*Repository, error) {
	aiRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		StockDataRepo: NewYahooFinanceRepository(cfg, log),
		NewsRepo:      NewNewsAPIRepository(cfg, log),
		AIRepo:        aiRepo,
	}, nil
}
