package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// Chat handles POST /v1/chat.
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Success: false, Error: "invalid_request", Details: "malformed JSON body"})
	}
	if len(req.Message) > 8000 {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Success: false, Error: "invalid_request", Details: "message exceeds 8000 characters"})
	}

	ctx := c.Request().Context()
	resp, err := h.orchestrator.HandleChat(ctx, req)
	if err != nil {
		return writeCoreError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// writeCoreError maps a CoreError (or generic error) to the fixed error
// response contract, with the status spec.md §6 assigns per kind.
func writeCoreError(c echo.Context, err error) error {
	var coreErr *domain.CoreError
	if !errors.As(err, &coreErr) {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}

	status := http.StatusInternalServerError
	switch coreErr.Kind {
	case domain.ErrInvalidRequest:
		status = http.StatusBadRequest
	case domain.ErrAgentTimeout:
		status = http.StatusGatewayTimeout
	case domain.ErrConfiguration:
		status = http.StatusInternalServerError
	}

	return c.JSON(status, domain.ErrorResponse{
		Success: false,
		Error:   string(coreErr.Kind),
		Details: coreErr.UserMessage(),
	})
}
