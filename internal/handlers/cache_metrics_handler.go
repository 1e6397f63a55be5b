package handlers

import (
	"net/http"

	"propertyBack/internal/services"
)

type CacheMetricsHandler struct {
	Service *services.CacheMetricsService
}

func (h *CacheMetricsHandler) GetCacheMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.GetCacheMetrics(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
