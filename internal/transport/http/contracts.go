package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/legaldesk/orchestrator/internal/domain"
)

const maxContractUploadBytes = 50 * 1024 * 1024

// UploadContract handles POST /v1/contracts, a multipart form with `file`
// plus optional `title`, `contract_type`, `parties` (JSON array), `notes`.
func (h *Handler) UploadContract(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Success: false, Error: "invalid_request", Details: "file is required"})
	}
	if fileHeader.Size > maxContractUploadBytes {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Success: false, Error: "invalid_request", Details: "file exceeds 50MB limit"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}

	ctx := c.Request().Context()
	text, err := h.codec.ExtractText(ctx, fileHeader.Filename, data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Success: false, Error: "invalid_request", Details: fmt.Sprintf("failed to parse file: %v", err)})
	}

	title := c.FormValue("title")
	if title == "" {
		title = fileHeader.Filename
	}
	contractType := c.FormValue("contract_type")

	var parties []domain.Party
	if raw := c.FormValue("parties"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &parties)
	}

	uri, err := h.blobs.Put(ctx, fileHeader.Filename, data)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}
	textURI, err := h.blobs.Put(ctx, fileHeader.Filename+".txt", []byte(text))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}

	contract := &domain.Contract{
		ContractID:       uuid.NewString(),
		Title:            title,
		UploadedAt:       time.Now(),
		FileURI:          uri,
		TextURI:          textURI,
		Status:           domain.ContractStatusUploaded,
		ComplianceStatus: domain.ComplianceUnknown,
		Parties:          parties,
	}
	if contractType != "" {
		contract.ContractType = &contractType
	}
	if err := h.st.CreateContract(ctx, contract); err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Success: false, Error: "internal", Details: err.Error()})
	}

	// CONTRACT_PARSER fetches the stored text on the next chat turn via
	// extract_clauses(contract_id), which reads textURI from the blob store.

	return c.JSON(http.StatusOK, domain.ContractUploadResponse{
		ContractID: contract.ContractID,
		Status:     contract.Status,
	})
}
