package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/forms"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/models/entities"
	gormModels "infinite-experiment/flightboard/internal/models/gorm"
	"infinite-experiment/flightboard/internal/providers"
	"infinite-experiment/flightboard/internal/store"
)

// Mutation operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

var (
	// ErrReloadFailed wraps the load error when a write was confirmed but
	// the following reload was not.
	ErrReloadFailed = errors.New(constants.GetErrorMessage(constants.ErrCodeReloadFailed))
	ErrUnknownKind  = errors.New(constants.GetErrorMessage(constants.ErrCodeUnknownKind))
	ErrMissingID    = errors.New(constants.GetErrorMessage(constants.ErrCodeMissingID))
)

// Reloader is the part of the entity store a mutation needs.
type Reloader interface {
	Load(ctx context.Context) (*store.Snapshot, error)
}

// AuditRecorder journals mutation attempts. Implementations must be safe
// for concurrent use.
type AuditRecorder interface {
	Record(ctx context.Context, entry *gormModels.MutationAudit) error
}

// MutationService writes to the flight operations service and then reloads
// the entity store, so a confirmed write is visible in the next snapshot.
// No entity is changed locally before the service confirms.
type MutationService struct {
	client  providers.FlightOpsClient
	store   Reloader
	norm    *common.Normalizer
	audit   AuditRecorder
	metrics *metrics.MetricsRegistry
}

// NewMutationService builds the service. audit and m may be nil.
func NewMutationService(client providers.FlightOpsClient, s Reloader, norm *common.Normalizer, audit AuditRecorder, m *metrics.MetricsRegistry) *MutationService {
	return &MutationService{
		client:  client,
		store:   s,
		norm:    norm,
		audit:   audit,
		metrics: m,
	}
}

// CreateEntity posts payload to the kind's collection and reloads.
func (s *MutationService) CreateEntity(ctx context.Context, kind entities.EntityKind, payload any) (*dtos.MutationResult, error) {
	return s.mutate(ctx, kind, OpCreate, nil, payload)
}

// UpdateEntity replaces the entity with the given id and reloads.
func (s *MutationService) UpdateEntity(ctx context.Context, kind entities.EntityKind, id int64, payload any) (*dtos.MutationResult, error) {
	return s.mutate(ctx, kind, OpUpdate, &id, payload)
}

// DeleteEntity removes the entity with the given id and reloads.
func (s *MutationService) DeleteEntity(ctx context.Context, kind entities.EntityKind, id int64) (*dtos.MutationResult, error) {
	return s.mutate(ctx, kind, OpDelete, &id, nil)
}

func (s *MutationService) mutate(ctx context.Context, kind entities.EntityKind, op string, id *int64, payload any) (*dtos.MutationResult, error) {
	start := time.Now()

	if err := validate(kind, op, id, payload); err != nil {
		s.finish(ctx, kind, op, id, gormModels.AuditOutcomeRejected, err, start)
		return nil, err
	}

	var (
		raw json.RawMessage
		err error
	)
	switch op {
	case OpCreate:
		raw, _, err = s.client.Create(ctx, kind, payload)
	case OpUpdate:
		raw, _, err = s.client.Update(ctx, kind, *id, payload)
	case OpDelete:
		_, err = s.client.Delete(ctx, kind, *id)
	}
	if err != nil {
		logging.Error("Mutation write failed",
			"kind", string(kind),
			"op", op,
			"error", err.Error(),
			"code", providers.ErrorCode(err),
		)
		s.finish(ctx, kind, op, id, gormModels.AuditOutcomeFailed, err, start)
		return nil, fmt.Errorf("%s %s: %w", op, kind, err)
	}

	result := &dtos.MutationResult{
		Kind:   string(kind),
		Op:     op,
		Entity: s.decodeEntity(kind, raw),
	}
	if id == nil {
		id = entityID(result.Entity)
	}

	snap, loadErr := s.store.Load(ctx)
	if snap != nil {
		result.Generation = snap.Generation
	}
	if loadErr != nil {
		err = fmt.Errorf("%w: %w", ErrReloadFailed, loadErr)
		s.finish(ctx, kind, op, id, gormModels.AuditOutcomeReloadFailed, err, start)
		return result, err
	}

	result.Reloaded = true
	s.finish(ctx, kind, op, id, gormModels.AuditOutcomeOK, nil, start)
	return result, nil
}

// decodeEntity normalizes a write response; nil when the service answered
// with nothing usable.
func (s *MutationService) decodeEntity(kind entities.EntityKind, raw json.RawMessage) any {
	rec, ok := common.DecodeRecord(raw)
	if !ok {
		return nil
	}
	switch kind {
	case entities.KindFlight:
		if f, ok := s.norm.Flight(rec); ok {
			return f
		}
	case entities.KindAirline:
		if a, ok := s.norm.Airline(rec); ok {
			return a
		}
	case entities.KindGate:
		if g, ok := s.norm.Gate(rec); ok {
			return g
		}
	}
	return nil
}

func entityID(entity any) *int64 {
	var id int64
	switch e := entity.(type) {
	case entities.Flight:
		id = e.ID
	case entities.Airline:
		id = e.ID
	case entities.Gate:
		id = e.ID
	default:
		return nil
	}
	return &id
}

func (s *MutationService) finish(ctx context.Context, kind entities.EntityKind, op string, id *int64, outcome string, err error, start time.Time) {
	if s.metrics != nil {
		s.metrics.MutationsTotal.WithLabelValues(string(kind), op, outcome).Inc()
	}

	if outcome == gormModels.AuditOutcomeOK {
		logging.Info("Mutation applied", "kind", string(kind), "op", op, "duration_ms", time.Since(start).Milliseconds())
	}

	if s.audit == nil {
		return
	}
	entry := &gormModels.MutationAudit{
		Kind:       string(kind),
		Op:         op,
		EntityID:   id,
		Outcome:    outcome,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.ErrorCode = errorCode(err)
		entry.Message = err.Error()
	}
	// record even when the request was cancelled
	if auditErr := s.audit.Record(context.WithoutCancel(ctx), entry); auditErr != nil {
		logging.Warn("Failed to record mutation audit", "kind", string(kind), "op", op, "error", auditErr.Error())
	}
}

// errorCode maps err to one of the constants.ErrCode* values.
func errorCode(err error) string {
	var verrs forms.ValidationErrors
	switch {
	case errors.Is(err, ErrReloadFailed):
		return constants.ErrCodeReloadFailed
	case errors.As(err, &verrs):
		return constants.ErrCodeValidationFailed
	case errors.Is(err, ErrUnknownKind):
		return constants.ErrCodeUnknownKind
	case errors.Is(err, ErrMissingID):
		return constants.ErrCodeMissingID
	}
	if code := providers.ErrorCode(err); code != "" {
		return code
	}
	return constants.ErrCodeUpstreamError
}

// ============================================================================
// Validation
// ============================================================================

func validate(kind entities.EntityKind, op string, id *int64, payload any) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if op != OpCreate && (id == nil || *id <= 0) {
		return ErrMissingID
	}
	if op == OpDelete {
		return nil
	}
	return validatePayload(kind, payload)
}

// validatePayload checks the fields the service needs to resolve relations.
func validatePayload(kind entities.EntityKind, payload any) error {
	errs := forms.ValidationErrors{}

	switch p := deref(payload).(type) {
	case dtos.FlightPayload:
		if kind != entities.KindFlight {
			return mismatch(kind, payload)
		}
		requireText(errs, "flightNumber", p.FlightNumber)
		requireID(errs, "airline", p.Airline.ID)
		requireID(errs, "departureAirport", p.DepartureAirport.ID)
		requireID(errs, "arrivalAirport", p.ArrivalAirport.ID)
		if p.Gate != nil {
			requireID(errs, "gate", p.Gate.ID)
		}
	case dtos.AirlinePayload:
		if kind != entities.KindAirline {
			return mismatch(kind, payload)
		}
		requireText(errs, "name", p.Name)
		requireText(errs, "code", p.Code)
	case dtos.GatePayload:
		if kind != entities.KindGate {
			return mismatch(kind, payload)
		}
		requireText(errs, "code", p.Code)
		requireID(errs, "airport", p.Airport.ID)
	default:
		return mismatch(kind, payload)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func deref(payload any) any {
	switch p := payload.(type) {
	case *dtos.FlightPayload:
		if p != nil {
			return *p
		}
	case *dtos.AirlinePayload:
		if p != nil {
			return *p
		}
	case *dtos.GatePayload:
		if p != nil {
			return *p
		}
	default:
		return payload
	}
	return nil
}

func mismatch(kind entities.EntityKind, payload any) error {
	return forms.ValidationErrors{"payload": fmt.Sprintf("%T is not a %s payload", payload, kind)}
}

func requireText(errs forms.ValidationErrors, field, value string) {
	if value == "" {
		errs[field] = "is required"
	}
}

func requireID(errs forms.ValidationErrors, field string, id int64) {
	if id <= 0 {
		errs[field] = "is required"
	}
}
