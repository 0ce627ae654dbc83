package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"recruitportal/internal/common"
)

// ErrorCollector counts rendered errors by code.
type ErrorCollector interface {
	IncError(code common.Code)
}

type collectorHolder struct {
	collector ErrorCollector
}

var errorCollector atomic.Pointer[collectorHolder]

func SetErrorCollector(collector ErrorCollector) {
	errorCollector.Store(&collectorHolder{collector: collector})
}

type errorBody struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
	}
}

// Error renders err with the status for its code. Causes of uncoded errors
// are logged and replaced by a generic message.
func Error(w http.ResponseWriter, err error) {
	var coded *common.Error
	if !errors.As(err, &coded) {
		slog.Error("unhandled error", slog.String("error", err.Error()))
		coded = common.NewError(common.CodeInternal, "internal server error", err)
	}
	if holder := errorCollector.Load(); holder != nil && holder.collector != nil {
		holder.collector.IncError(coded.Code)
	}
	message := coded.Message
	if coded.Code == common.CodeInternal {
		if coded.Err != nil {
			slog.Error("internal error", slog.String("message", coded.Message), slog.String("error", coded.Err.Error()))
		}
		if message == "" {
			message = "internal server error"
		}
	}
	JSON(w, StatusFor(coded.Code), errorBody{Error: message, Fields: coded.Fields, Details: coded.Details})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation, common.CodeBadRequest:
		return http.StatusBadRequest
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
