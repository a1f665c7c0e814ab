package common

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/models/entities"
)

// Collection names, used in logs and metric labels.
const (
	CollectionAirports = "airports"
	CollectionAirlines = "airlines"
	CollectionGates    = "gates"
	CollectionFlights  = "flights"
)

// Normalizer turns raw service payloads into trusted entity collections.
// It never fails: a payload that is not a JSON array becomes an empty
// collection and records failing the minimal shape check are skipped.
type Normalizer struct {
	// Location applies to timestamps that carry no zone. Defaults to UTC.
	Location *time.Location
	Metrics  *metrics.MetricsRegistry
}

func NewNormalizer(loc *time.Location, m *metrics.MetricsRegistry) *Normalizer {
	return &Normalizer{Location: loc, Metrics: m}
}

// RawRecord is one JSON object keyed by field name.
type RawRecord map[string]json.RawMessage

// Airports requires id and code on each record.
func (n *Normalizer) Airports(raw json.RawMessage) []entities.Airport {
	return normalizeCollection(n, CollectionAirports, raw, func(r RawRecord) (entities.Airport, bool) {
		a, hasID := n.airport(r)
		return a, hasID && a.Code != ""
	})
}

// Airlines requires id, name and code on each record.
func (n *Normalizer) Airlines(raw json.RawMessage) []entities.Airline {
	return normalizeCollection(n, CollectionAirlines, raw, n.Airline)
}

// Gates requires id and code on each record.
func (n *Normalizer) Gates(raw json.RawMessage) []entities.Gate {
	return normalizeCollection(n, CollectionGates, raw, n.Gate)
}

// Flights requires id and flight number on each record.
func (n *Normalizer) Flights(raw json.RawMessage) []entities.Flight {
	return normalizeCollection(n, CollectionFlights, raw, n.Flight)
}

// DecodeRecord parses a single-object payload such as a write response.
// ok is false when raw is not a JSON object.
func DecodeRecord(raw json.RawMessage) (RawRecord, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var r RawRecord
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, false
	}
	return r, true
}

func normalizeCollection[T any](n *Normalizer, collection string, raw json.RawMessage, decode func(RawRecord) (T, bool)) []T {
	out := make([]T, 0)

	trimmed := bytes.TrimSpace(raw)
	var items []json.RawMessage
	if len(trimmed) == 0 || trimmed[0] != '[' || json.Unmarshal(trimmed, &items) != nil {
		logging.Warn("Payload is not a sequence, using empty collection",
			"collection", collection,
			"payload_prefix", prefix(trimmed, 64),
		)
		n.countDrop(collection, "not_sequence", 1)
		return out
	}

	dropped := 0
	for _, item := range items {
		rec, ok := DecodeRecord(item)
		if !ok {
			dropped++
			continue
		}
		v, ok := decode(rec)
		if !ok {
			dropped++
			continue // Skip invalid records
		}
		out = append(out, v)
	}

	if dropped > 0 {
		logging.Warn("Dropped malformed records",
			"collection", collection,
			"dropped", dropped,
			"kept", len(out),
		)
		n.countDrop(collection, "malformed", dropped)
	}
	return out
}

func (n *Normalizer) countDrop(collection, reason string, count int) {
	if n == nil || n.Metrics == nil {
		return
	}
	n.Metrics.NormalizerDropsTotal.WithLabelValues(collection, reason).Add(float64(count))
}

// ============================================================================
// Records
// ============================================================================

func (n *Normalizer) airport(r RawRecord) (entities.Airport, bool) {
	id, hasID := ParseID(r["id"])
	return entities.Airport{
		ID:   id,
		Name: parseString(r["name"]),
		Code: strings.ToUpper(parseString(r["code"])),
	}, hasID
}

func (n *Normalizer) Airline(r RawRecord) (entities.Airline, bool) {
	a, hasID := n.airline(r)
	return a, hasID && a.Name != "" && a.Code != ""
}

func (n *Normalizer) airline(r RawRecord) (entities.Airline, bool) {
	id, hasID := ParseID(r["id"])
	return entities.Airline{
		ID:      id,
		Name:    parseString(r["name"]),
		Code:    strings.ToUpper(parseString(r["code"])),
		Country: parseString(r["country"]),
	}, hasID
}

func (n *Normalizer) Gate(r RawRecord) (entities.Gate, bool) {
	g, hasID := n.gate(r)
	return g, hasID && g.Code != ""
}

func (n *Normalizer) gate(r RawRecord) (entities.Gate, bool) {
	id, hasID := ParseID(r["id"])
	return entities.Gate{
		ID:       id,
		Code:     parseString(r["code"]),
		Terminal: parseString(r["terminal"]),
		Airport:  n.airportRef(r["airport"]),
	}, hasID
}

func (n *Normalizer) Flight(r RawRecord) (entities.Flight, bool) {
	id, hasID := ParseID(r["id"])
	f := entities.Flight{
		ID:               id,
		FlightNumber:     parseString(r["flightNumber"]),
		Airline:          n.airlineRef(r["airline"]),
		DepartureAirport: n.airportRef(r["departureAirport"]),
		ArrivalAirport:   n.airportRef(r["arrivalAirport"]),
		DepartureTime:    n.parseTime(r["departureTime"]),
		ArrivalTime:      n.parseTime(r["arrivalTime"]),
		Gate:             n.gateRef(r["gate"]),
		Status:           entities.FlightStatus(strings.ToUpper(parseString(r["status"]))),
		AircraftType:     parseString(r["aircraftType"]),
	}
	return f, hasID && f.FlightNumber != ""
}

// ============================================================================
// Relations
// ============================================================================

func (n *Normalizer) airportRef(raw json.RawMessage) entities.Ref[entities.Airport] {
	return buildRef(raw, n.airport)
}

func (n *Normalizer) airlineRef(raw json.RawMessage) entities.Ref[entities.Airline] {
	return buildRef(raw, n.airline)
}

func (n *Normalizer) gateRef(raw json.RawMessage) entities.Ref[entities.Gate] {
	return buildRef(raw, n.gate)
}

// buildRef accepts null, a bare id, or an object. Objects carrying nothing
// beyond an id collapse to an id-only reference.
func buildRef[T any](raw json.RawMessage, decode func(RawRecord) (T, bool)) entities.Ref[T] {
	var ref entities.Ref[T]

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ref
	}

	rec, ok := DecodeRecord(trimmed)
	if !ok {
		if id, ok := ParseID(trimmed); ok {
			ref.ID = &id
		}
		return ref
	}

	v, hasID := decode(rec)
	if hasID {
		id, _ := ParseID(rec["id"])
		ref.ID = &id
	}
	if len(rec) > 1 || (!hasID && len(rec) > 0) {
		ref.Record = &v
	}
	return ref
}

// ============================================================================
// Scalars
// ============================================================================

// ParseID accepts integral JSON numbers and numeric strings.
func ParseID(raw json.RawMessage) (int64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, false
		}
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return id, err == nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return 0, false
	}
	if id, err := num.Int64(); err == nil {
		return id, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// parseString returns JSON strings trimmed and renders numbers verbatim;
// anything else is treated as absent.
func parseString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch {
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		return string(trimmed)
	}
	return ""
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTime understands RFC 3339 strings, zone-less local date-times,
// epoch milliseconds and the [y, m, d, h, min, s] arrays some Java
// backends emit. Anything else yields nil.
func (n *Normalizer) parseTime(raw json.RawMessage) *time.Time {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	loc := time.UTC
	if n != nil && n.Location != nil {
		loc = n.Location
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return &t
		}
		for _, layout := range zonelessLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return &t
			}
		}
		return nil

	case '[':
		var parts []int
		if err := json.Unmarshal(trimmed, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], loc)
		return &t

	default:
		ms, ok := ParseID(trimmed)
		if !ok {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}
}

func prefix(b []byte, max int) string {
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
