package api

import (
	"encoding/json"
	"net/http"
	"time"

	"infinite-experiment/flightboard/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Reports the entity store state and the reachability of the audit journal and Redis.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Failure 503 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(deps *Dependencies, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)
		st := deps.Services.Store

		// Entity store
		snap := st.Snapshot()
		storeStatus := entities.ServiceStatus{Status: "ok", Details: "Snapshot loaded"}
		switch {
		case st.LastError() != nil:
			storeStatus = entities.ServiceStatus{Status: "degraded", Details: st.LastError().Error()}
		case !snap.Loaded():
			storeStatus = entities.ServiceStatus{Status: "degraded", Details: "No snapshot loaded yet"}
		}
		services["entity_store"] = storeStatus

		// Audit journal
		if deps.AuditDB != nil {
			auditStatus := entities.ServiceStatus{Status: "ok", Details: deps.AuditDB.Driver + " connected"}
			if err := deps.AuditDB.Ping(r.Context()); err != nil {
				auditStatus = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["audit"] = auditStatus
		}

		// Redis
		if deps.Redis != nil {
			redisStatus := entities.ServiceStatus{Status: "ok", Details: "Redis connected"}
			if err := deps.Redis.Ping(r.Context()); err != nil {
				redisStatus = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services["redis"] = redisStatus
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status == "down" {
				overallStatus = "down"
				break
			}
			if svc.Status != "ok" {
				overallStatus = "degraded"
			}
		}

		now := time.Now()
		resp := entities.HealthCheckResponse{
			Status:          overallStatus,
			Services:        services,
			StoreGeneration: snap.Generation,
			Loading:         st.Loading(),
			UpSince:         upSince,
			Uptime:          now.Sub(upSince).Round(time.Second).String(),
		}
		if err := st.LastError(); err != nil {
			resp.LastLoadError = err.Error()
		}

		code := http.StatusOK
		if overallStatus == "down" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
