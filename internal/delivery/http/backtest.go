package http

import (
	"net/http"

	"stock-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	base.GET("/backtest/:ticker", h.runBacktest)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	ticker, q, err := h.bindSeriesQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	series, err := h.service.PriceStoreService.GetSeries(ctx, ticker, q.Period, q.Interval)
	if err != nil {
		return h.errorJSON(c, err)
	}

	_, events := h.service.SignalService.Compute(series)
	result := h.service.BacktestService.Simulate(events, series, h.cfg.Backtest.InitialCapital, h.cfg.Backtest.FeeRate)

	return c.JSON(http.StatusOK, result)
}
