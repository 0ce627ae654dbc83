package handlers

import (
	"net/http"

	"recruitportal/internal/app"
	"recruitportal/internal/http/response"
	"recruitportal/internal/importer"
)

type BulkHandler struct {
	applications *app.ApplicationService
	maxUpload    int64
}

func NewBulkHandler(applications *app.ApplicationService, maxUpload int64) *BulkHandler {
	return &BulkHandler{applications: applications, maxUpload: maxUpload}
}

// Import accepts a multipart "file" field; ?profile=strict enables the
// closed-enumeration checks.
func (h *BulkHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, h.maxUpload)
	if err != nil {
		response.Error(w, err)
		return
	}
	profile := importer.ParseProfile(r.URL.Query().Get("profile"))
	report, err := h.applications.Import(r.Context(), data, profile)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

func (h *BulkHandler) Debug(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, h.maxUpload)
	if err != nil {
		response.Error(w, err)
		return
	}
	report, err := h.applications.Debug(data)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

func (h *BulkHandler) Validate(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, h.maxUpload)
	if err != nil {
		response.Error(w, err)
		return
	}
	report, err := h.applications.Check(data)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

func (h *BulkHandler) Fix(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, h.maxUpload)
	if err != nil {
		response.Error(w, err)
		return
	}
	fixed, err := h.applications.Repair(data)
	if err != nil {
		response.Error(w, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", "fixed_applications.csv", fixed)
}

func (h *BulkHandler) Template(w http.ResponseWriter, r *http.Request) {
	template, err := h.applications.Template()
	if err != nil {
		response.Error(w, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", importer.TemplateFilename, template)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
