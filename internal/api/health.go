package api

import (
	"encoding/json"
	"net/http"
	"time"

	"route-vending/tablegrid/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
func (h *Handlers) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		dbStatus := "ok"
		dbDetails := h.deps.DB.Driver + " connected"
		if err := h.deps.DB.Ping(r.Context()); err != nil {
			dbStatus = "down"
			dbDetails = err.Error()
		}
		services["database"] = entities.ServiceStatus{
			Status:  dbStatus,
			Details: dbDetails,
		}
		services["cache"] = entities.ServiceStatus{
			Status:  "ok",
			Details: h.deps.Config.Cache.Backend,
		}

		overallStatus := "ok"
		code := http.StatusOK
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				code = http.StatusServiceUnavailable
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  h.deps.UpSince,
			Uptime:   time.Since(h.deps.UpSince).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
