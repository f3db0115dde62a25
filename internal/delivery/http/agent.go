package http

import (
	"net/http"

	"stock-agent/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAgent(base *echo.Group) {
	base.POST("/agent/chat", h.agentChat)
}

func (h *HttpAPIHandler) agentChat(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.ChatRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	resp, err := h.service.AgentService.Chat(ctx, req.Query)
	if err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
