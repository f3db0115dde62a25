package service

import (
	"stock-agent/config"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Janitor periodically evicts stale trained forecast models so refreshed
// price data retrains on demand instead of silently serving old forecasts.
type Janitor struct {
	cfg      *config.Config
	log      *logger.Logger
	forecast ForecastService
	cron     *cron.Cron
}

func NewJanitor(cfg *config.Config, log *logger.Logger, forecast ForecastService) *Janitor {
	return &Janitor{
		cfg:      cfg,
		log:      log,
		forecast: forecast,
		cron:     cron.New(),
	}
}

func (j *Janitor) Start() error {
	_, err := j.cron.AddFunc(j.cfg.Janitor.CronSpec, func() {
		utils.GoSafe(j.forecast.EvictStale)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.log.Info("Janitor started", logger.StringField("cron_spec", j.cfg.Janitor.CronSpec))
	return nil
}

func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.log.Info("Janitor stopped")
}
