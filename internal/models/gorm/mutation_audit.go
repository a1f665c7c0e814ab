package gorm

import "time"

// Outcomes recorded for a mutation.
const (
	AuditOutcomeOK           = "ok"
	AuditOutcomeRejected     = "rejected"
	AuditOutcomeFailed       = "failed"
	AuditOutcomeReloadFailed = "reload_failed"
)

// MutationAudit is one attempted write against the flight operations service.
type MutationAudit struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)" db:"id" json:"id"`
	Kind       string    `gorm:"column:kind;type:varchar(16);not null;index" db:"kind" json:"kind"`
	Op         string    `gorm:"column:op;type:varchar(16);not null" db:"op" json:"op"`
	EntityID   *int64    `gorm:"column:entity_id" db:"entity_id" json:"entityId,omitempty"`
	Outcome    string    `gorm:"column:outcome;type:varchar(16);not null" db:"outcome" json:"outcome"`
	ErrorCode  string    `gorm:"column:error_code;type:varchar(32)" db:"error_code" json:"errorCode,omitempty"`
	Message    string    `gorm:"column:message;type:text" db:"message" json:"message,omitempty"`
	DurationMs int64     `gorm:"column:duration_ms" db:"duration_ms" json:"durationMs"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;index" db:"created_at" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (MutationAudit) TableName() string {
	return "mutation_audit"
}
