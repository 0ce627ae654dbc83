package handlers

import (
	"bytes"
	"net/http"
	"time"

	"recruitportal/internal/app"
	"recruitportal/internal/common"
	"recruitportal/internal/export"
	"recruitportal/internal/http/response"
)

type ExportHandler struct {
	applications *app.ApplicationService
	now          func() time.Time
}

func NewExportHandler(applications *app.ApplicationService) *ExportHandler {
	return &ExportHandler{applications: applications, now: time.Now}
}

// Export streams the filtered applications as csv (default), json or xlsx.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		response.Error(w, common.NewValidationError("invalid export format", map[string]string{"format": "must be csv, json or xlsx"}))
		return
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.Export(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	at := h.now()
	if format == export.FormatJSON {
		response.JSON(w, http.StatusOK, export.NewDocument(items, filter, at))
		return
	}

	var buf bytes.Buffer
	if format == export.FormatXLSX {
		err = export.WriteXLSX(&buf, items)
	} else {
		err = export.WriteCSV(&buf, items)
	}
	if err != nil {
		response.Error(w, common.NewError(common.CodeInternal, "Failed to export data", err))
		return
	}
	writeAttachment(w, format.ContentType(), export.Filename(format, at), buf.Bytes())
}
