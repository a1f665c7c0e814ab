package dtos

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// FormRejection is returned when a submitted form cannot be written. The
// submitted values are echoed back so the client can resubmit them.
type FormRejection struct {
	Fields map[string]string `json:"fields,omitempty"`
	Form   any               `json:"form"`
	Code   string            `json:"code,omitempty"`
}

// MutationResult reports a confirmed write. Reloaded is false when the write
// succeeded but the consistency reload did not. Loading mirrors the store's
// flag when the response is written.
type MutationResult struct {
	Kind       string `json:"kind"`
	Op         string `json:"op"`
	Entity     any    `json:"entity,omitempty"`
	Reloaded   bool   `json:"reloaded"`
	Generation uint64 `json:"generation"`
	Loading    bool   `json:"loading"`
}

// SnapshotResponse is the store state served to clients.
type SnapshotResponse struct {
	Snapshot      any    `json:"snapshot"`
	Loading       bool   `json:"loading"`
	LastLoadError string `json:"lastLoadError,omitempty"`
}

// AuditResponse lists journal entries with per-outcome totals.
type AuditResponse struct {
	Entries any              `json:"entries"`
	Totals  map[string]int64 `json:"totals"`
}
