package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// GetSessionMessages handles GET /v1/sessions/:session_id/messages.
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	before := c.QueryParam("before")

	ctx := c.Request().Context()
	messages, err := h.st.ListMessages(ctx, sessionID, limit, before)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

// GetThinkingLogs handles GET /v1/runs/:turn_id/thinking_logs.
func (h *Handler) GetThinkingLogs(c echo.Context) error {
	turnID := c.Param("turn_id")
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Success: false, Error: "invalid_request", Details: "session_id query parameter is required"})
	}

	ctx := c.Request().Context()
	logs, err := h.st.ListThinkingLogs(ctx, sessionID, turnID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"thinking_logs": logs})
}
