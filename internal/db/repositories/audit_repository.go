package repositories

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/flightboard/internal/db"
	"infinite-experiment/flightboard/internal/models/gorm"

	"github.com/google/uuid"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditRepository handles mutation_audit table operations
type AuditRepository struct {
	db *db.AuditDB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(adb *db.AuditDB) *AuditRepository {
	return &AuditRepository{db: adb}
}

// Record inserts one journal entry, assigning its id and timestamp when unset.
func (r *AuditRepository) Record(ctx context.Context, entry *gorm.MutationAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.ORM.WithContext(ctx).Create(entry).Error
}

// List returns the newest entries first. An empty kind lists every kind.
func (r *AuditRepository) List(ctx context.Context, kind string, limit int) ([]gorm.MutationAudit, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	query := `
		SELECT id, kind, op, entity_id, outcome, error_code, message, duration_ms, created_at
		FROM mutation_audit`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	entries := []gorm.MutationAudit{}
	if err := r.db.SQL.SelectContext(ctx, &entries, r.db.SQL.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// CountByOutcome returns how many entries ended with each outcome.
func (r *AuditRepository) CountByOutcome(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Outcome string `db:"outcome"`
		Total   int64  `db:"total"`
	}
	query := `SELECT outcome, COUNT(*) AS total FROM mutation_audit GROUP BY outcome`
	if err := r.db.SQL.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = row.Total
	}
	return counts, nil
}
