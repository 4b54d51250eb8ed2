package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stationery/internal/core/apperror"
	"stationery/internal/domain/tracker"
	"stationery/internal/domain/views"
	"stationery/internal/infrastructure/export"
	"stationery/internal/infrastructure/http/v1/dto"
	"stationery/pkg/logger"
)

// HeaderArchiveKey carries the archive object key of an exported file.
const HeaderArchiveKey = "X-Archive-Key"

// TransferHandler handles exports and imports.
type TransferHandler struct {
	*BaseHandler
	service  *tracker.Service
	exporter *export.Exporter
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *tracker.Service, exporter *export.Exporter) *TransferHandler {
	return &TransferHandler{BaseHandler: base, service: service, exporter: exporter}
}

// Export handles GET /export/:format with the view filter as query.
func (h *TransferHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var f views.Filter
	if !h.BindQuery(c, &f) {
		return
	}

	st := h.service.State()
	file, err := h.exporter.Export(c.Request.Context(), format, export.Snapshot{
		Reports: st.Reports,
		Stock:   st.Stock,
		Catalog: h.service.Catalog(),
		Today:   h.service.Today(),
	}, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	if file.ArchiveKey != "" {
		c.Header(HeaderArchiveKey, file.ArchiveKey)
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ImportPDF handles POST /import/pdf with the document in form field "file".
func (h *TransferHandler) ImportPDF(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("a PDF file is required").WithDetail("field", "file"))
		return
	}
	src, err := fh.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.Error(c, readError(c, err))
		return
	}

	payload, err := h.service.ImportPDF(c.Request.Context(), data)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ImportResponse{Reports: len(payload.Reports), StockItems: len(payload.Stock)})
}

// ImportJSON handles POST /import/json with a backup as the request body.
func (h *TransferHandler) ImportJSON(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, readError(c, err))
		return
	}

	payload, err := h.service.ImportJSON(c.Request.Context(), data)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ImportResponse{Reports: len(payload.Reports), StockItems: len(payload.Stock)})
}

func readError(c *gin.Context, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn(c.Request.Context(), "upload over limit", "limit", tooLarge.Limit)
		return apperror.NewValidation("upload is too large").WithDetail("limit", tooLarge.Limit)
	}
	return apperror.NewValidation("failed to read upload").WithCause(err)
}
