package http

import (
	"net/http"

	"stock-agent/internal/dto"
	"stock-agent/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSignals(base *echo.Group) {
	base.GET("/signals/:ticker", h.getSignals)
}

func (h *HttpAPIHandler) getSignals(c echo.Context) error {
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

	resp := dto.SignalsResponse{
		BuySignals:  []dto.SignalPoint{},
		SellSignals: []dto.SignalPoint{},
	}
	for _, ev := range events {
		point := dto.SignalPoint{
			Date:  ev.Date.Format(utils.DateTimeLayout),
			Price: ev.Price,
		}
		if ev.Kind == dto.SignalBuy {
			resp.BuySignals = append(resp.BuySignals, point)
		} else {
			resp.SellSignals = append(resp.SellSignals, point)
		}
	}

	return c.JSON(http.StatusOK, resp)
}
