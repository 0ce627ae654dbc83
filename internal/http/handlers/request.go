package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewError(common.CodeBadRequest, "request body too large", err)
		}
		if errors.Is(err, io.EOF) {
			return common.NewError(common.CodeBadRequest, "request body is empty", err)
		}
		return common.NewError(common.CodeBadRequest, "invalid JSON body", err)
	}
	return nil
}

func idFromRequest(r *http.Request) (common.UUID, error) {
	id, err := common.ParseUUID(mux.Vars(r)["id"])
	if err != nil {
		return "", common.NewValidationError("invalid application id", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

// filterFromQuery reads status, role, search, page and limit. Malformed
// numbers fall back to the defaults.
func filterFromQuery(r *http.Request) (application.Filter, error) {
	query := r.URL.Query()
	filter := application.Filter{
		Role:   strings.TrimSpace(query.Get("role")),
		Search: strings.TrimSpace(query.Get("search")),
	}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, ok := application.ParseStatus(value)
		if !ok {
			return filter, common.NewValidationError("invalid filter", map[string]string{"status": "Invalid status: " + value})
		}
		filter.Status = status
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))
	return filter, nil
}

const uploadField = "file"

// readUpload returns the bytes of the multipart "file" part.
func readUpload(r *http.Request, maxBytes int64) ([]byte, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, common.NewError(common.CodeBadRequest, "Uploaded file is too large", err)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, common.NewError(common.CodeBadRequest, "No file uploaded", err)
		}
		return nil, common.NewError(common.CodeBadRequest, "invalid multipart form", err)
	}
	defer r.MultipartForm.RemoveAll()
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, common.NewError(common.CodeBadRequest, "No file uploaded", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, common.NewError(common.CodeBadRequest, "failed to read uploaded file", err)
	}
	return data, nil
}
