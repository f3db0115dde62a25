package http

import (
	"net/http"

	"stock-agent/internal/dto"
	"stock-agent/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStock(base *echo.Group) {
	base.GET("/stock/:ticker", h.getStockData)
}

func (h *HttpAPIHandler) getStockData(c echo.Context) error {
	ctx := c.Request().Context()

	ticker, q, err := h.bindSeriesQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	series, err := h.service.PriceStoreService.GetSeries(ctx, ticker, q.Period, q.Interval)
	if err != nil {
		return h.errorJSON(c, err)
	}

	indicators, _ := h.service.SignalService.Compute(series)

	resp := dto.StockChartResponse{
		Dates:      make([]string, len(series.Bars)),
		Close:      make([]float64, len(series.Bars)),
		Open:       make([]float64, len(series.Bars)),
		High:       make([]float64, len(series.Bars)),
		Low:        make([]float64, len(series.Bars)),
		MACD:       indicators.MACD,
		SignalLine: indicators.SignalLine,
	}
	for i, b := range series.Bars {
		resp.Dates[i] = b.Date.Format(utils.DateTimeLayout)
		resp.Close[i] = b.Close
		resp.Open[i] = b.Open
		resp.High[i] = b.High
		resp.Low[i] = b.Low
	}

	return c.JSON(http.StatusOK, resp)
}
