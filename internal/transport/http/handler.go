// Package http is the thin echo transport adapter over the orchestrator.
// It holds no orchestration logic: every handler validates/decodes the
// request, calls into the orchestrator, and encodes the response, the way
// the teacher's internal/transport/http/v1 handlers do.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/doccodec"
	"github.com/legaldesk/orchestrator/internal/orchestrator"
	"github.com/legaldesk/orchestrator/internal/store"
)

// Handler wires the SessionOrchestrator and its read-side collaborators to
// HTTP routes.
type Handler struct {
	orchestrator *orchestrator.Orchestrator
	st           store.Store
	blobs        blobstore.BlobStore
	codec        doccodec.DocumentCodec
}

// NewHandler builds a Handler.
func NewHandler(orch *orchestrator.Orchestrator, st store.Store, blobs blobstore.BlobStore, codec doccodec.DocumentCodec) *Handler {
	return &Handler{orchestrator: orch, st: st, blobs: blobs, codec: codec}
}

// RegisterRoutes registers the external routes spec.md §6 names.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)
	e.POST("/v1/contracts", h.UploadContract)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/v1/runs/:turn_id/thinking_logs", h.GetThinkingLogs)
	e.GET("/health", h.Health)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
