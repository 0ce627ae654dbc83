package handlers

import (
	"net/http"

	"recruitportal/internal/app"
	"recruitportal/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
}

func NewApplicationHandler(applications *app.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req app.SubmitInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.applications.Submit(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

func (h *ApplicationHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req app.TrackInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	view, err := h.applications.Track(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"application": view})
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req app.AdminInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.applications.CreateByAdmin(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Application created successfully",
		"application": created,
	})
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.applications.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.applications.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var patch app.Patch
	if err := decodeJSON(r, &patch); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Update(r.Context(), id, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"message":     "Application updated successfully",
		"application": updated,
	})
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.StatusUpdate
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), id, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"message":     "Application status updated successfully",
		"application": updated,
	})
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Application deleted successfully"})
}

func (h *ApplicationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.applications.Stats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}
