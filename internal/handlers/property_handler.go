package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"propertyBack/internal/models"
	"propertyBack/internal/services"
)

type PropertyHandler struct {
	Service *services.PropertyService
}

// ListProperties returns every property as {"count": n, "data": [...]}.
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.GetAllProperties(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch properties")
		return
	}
	writeJSON(w, http.StatusOK, models.PropertyListResponse{
		Count: len(res.Data),
		Data:  res.Data,
	})
}

func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get(":id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing property id")
		return
	}
	property, err := h.Service.GetPropertyByID(r.Context(), id)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusNotFound {
			writeError(w, status, "Property not found")
			return
		}
		writeError(w, status, "Failed to fetch property")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	property, err := h.Service.CreateProperty(r.Context(), req)
	if err != nil {
		status := errorStatus(err)
		switch status {
		case http.StatusBadRequest:
			writeError(w, status, err.Error())
		case http.StatusConflict:
			writeError(w, status, "Property already exists")
		default:
			writeError(w, status, "Failed to create property")
		}
		return
	}
	writeJSON(w, http.StatusCreated, property)
}

func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get(":id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing property id")
		return
	}
	if err := h.Service.DeleteProperty(r.Context(), id); err != nil {
		status := errorStatus(err)
		if status == http.StatusNotFound {
			writeError(w, status, "Property not found")
			return
		}
		writeError(w, status, "Failed to delete property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
