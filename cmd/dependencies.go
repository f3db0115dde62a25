package cmd

import (
	"fmt"

	"stock-agent/config"
	"stock-agent/pkg/cache"
	"stock-agent/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	cfg           *config.Config
	log           *logger.Logger
	validator     *goValidator.Validate
	echo          *echo.Echo
	inmemoryCache cache.Cache
}

func initAppDependencies() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	inmemoryCache := cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)

	return &AppDependency{
		cfg:           cfg,
		log:           log,
		validator:     goValidator.New(),
		echo:          echo.New(),
		inmemoryCache: inmemoryCache,
	}, nil
}
