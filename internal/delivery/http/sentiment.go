package http

import (
	"net/http"
	"strings"

	"stock-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSentiment(base *echo.Group) {
	base.GET("/sentiment/:ticker", h.getSentiment)
}

func (h *HttpAPIHandler) getSentiment(c echo.Context) error {
	ctx := c.Request().Context()

	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "ticker is required"})
	}

	result, err := h.service.SentimentService.Analyze(ctx, ticker)
	if err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
