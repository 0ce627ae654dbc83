package http

import (
	"net/http"

	"recruitportal/internal/common"
	"recruitportal/internal/http/response"
)

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, common.NewError(common.CodeNotFound, "route not found", nil))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
