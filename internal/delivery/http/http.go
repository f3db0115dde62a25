package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, cfg *config.Config, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupStock(base)
	h.SetupSignals(base)
	h.SetupBacktest(base)
	h.SetupPredict(base)
	h.SetupSentiment(base)
	h.SetupAgent(base)
}

// seriesQuery carries the shared period/interval query params.
type seriesQuery struct {
	Period   string `query:"period" validate:"omitempty,oneof=1d 5d 1w 1m 1mo 3m 3mo 6m 6mo 1y 2y 5y max"`
	Interval string `query:"interval" validate:"omitempty,oneof=1m 5m 15m 30m 1h 1d 1wk 1mo"`
}

func (h *HttpAPIHandler) bindSeriesQuery(c echo.Context) (ticker string, q seriesQuery, err error) {
	ticker = strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		return "", q, errors.New("ticker is required")
	}

	if err := c.Bind(&q); err != nil {
		return "", q, errors.New("invalid query parameters")
	}
	if err := h.validator.Struct(&q); err != nil {
		return "", q, err
	}

	if q.Period == "" {
		q.Period = "1y"
	}
	if q.Interval == "" {
		q.Interval = "1d"
	}
	return ticker, q, nil
}

// errorJSON renders every failure as a JSON body with an error field so the
// dashboard can show a message without inspecting the status code.
func (h *HttpAPIHandler) errorJSON(c echo.Context, err error) error {
	return c.JSON(httpStatusFor(err), dto.ErrorResponse{Error: err.Error()})
}

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, dto.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
