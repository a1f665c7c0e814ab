package entities

import "time"

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status          string                   `json:"status"`
	Services        map[string]ServiceStatus `json:"services"`
	StoreGeneration uint64                   `json:"store_generation"`
	Loading         bool                     `json:"loading"`
	LastLoadError   string                   `json:"last_load_error,omitempty"`
	UpSince         time.Time                `json:"up_since"`
	Uptime          string                   `json:"uptime"`
}
