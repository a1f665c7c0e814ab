package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/models/entities"
	"infinite-experiment/flightboard/internal/providers"

	"golang.org/x/sync/errgroup"
)

// Snapshot is one immutable view of every collection. Callers must not
// modify the slices; a new Snapshot is published on each committed load.
type Snapshot struct {
	Airports []entities.Airport `json:"airports"`
	Airlines []entities.Airline `json:"airlines"`
	Gates    []entities.Gate    `json:"gates"`
	Flights  []entities.Flight  `json:"flights"`

	// Generation of the full load that produced airports, airlines and flights.
	Generation uint64 `json:"generation"`
	// GatesGeneration is bumped by full loads and by LoadGatesForAirport.
	GatesGeneration uint64 `json:"gatesGeneration"`
	// GatesAirportID is set while gates are scoped to one airport.
	GatesAirportID *int64    `json:"gatesAirportId,omitempty"`
	LoadedAt       time.Time `json:"loadedAt"`
}

// Loaded reports whether a full load has ever committed.
func (s *Snapshot) Loaded() bool {
	return s.Generation > 0
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Airports: []entities.Airport{},
		Airlines: []entities.Airline{},
		Gates:    []entities.Gate{},
		Flights:  []entities.Flight{},
	}
}

// EntityStore holds the last fetched snapshot of the flight operations
// collections. Every load is tagged with a monotonically increasing
// generation; a completion older than the committed snapshot is discarded.
type EntityStore struct {
	client  providers.FlightOpsClient
	norm    *common.Normalizer
	metrics *metrics.MetricsRegistry

	nextGen  atomic.Uint64
	inflight atomic.Int64

	mu      sync.RWMutex
	snap    *Snapshot
	lastErr error
}

func NewEntityStore(client providers.FlightOpsClient, norm *common.Normalizer, m *metrics.MetricsRegistry) *EntityStore {
	if norm == nil {
		norm = common.NewNormalizer(nil, m)
	}
	return &EntityStore{
		client:  client,
		norm:    norm,
		metrics: m,
		snap:    emptySnapshot(),
	}
}

// Snapshot returns the current snapshot. It is never nil.
func (s *EntityStore) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Loading is true while any load is outstanding.
func (s *EntityStore) Loading() bool {
	return s.inflight.Load() > 0
}

// LastError is the diagnostic of the most recent failed load, cleared by
// the next committed one.
func (s *EntityStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Load fetches airports, airlines, gates and flights concurrently and
// commits them together. If any fetch fails the snapshot is left as it was.
func (s *EntityStore) Load(ctx context.Context) (*Snapshot, error) {
	gen := s.nextGen.Add(1)
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	start := time.Now()
	var airportsRaw, airlinesRaw, gatesRaw, flightsRaw json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		airportsRaw, _, err = s.client.FetchAirports(gctx)
		return wrapFetch(common.CollectionAirports, err)
	})
	g.Go(func() (err error) {
		airlinesRaw, _, err = s.client.FetchAirlines(gctx)
		return wrapFetch(common.CollectionAirlines, err)
	})
	g.Go(func() (err error) {
		gatesRaw, _, err = s.client.FetchGates(gctx)
		return wrapFetch(common.CollectionGates, err)
	})
	g.Go(func() (err error) {
		flightsRaw, _, err = s.client.FetchFlights(gctx)
		return wrapFetch(common.CollectionFlights, err)
	})

	if err := g.Wait(); err != nil {
		s.fail(gen, "full", err)
		return s.Snapshot(), err
	}

	next := &Snapshot{
		Airports:        s.norm.Airports(airportsRaw),
		Airlines:        s.norm.Airlines(airlinesRaw),
		Gates:           s.norm.Gates(gatesRaw),
		Flights:         s.norm.Flights(flightsRaw),
		Generation:      gen,
		GatesGeneration: gen,
		LoadedAt:        time.Now(),
	}

	snap, committed := s.commitFull(next)
	s.observe("full", committed, time.Since(start))
	if committed {
		logging.Info("Entity store loaded",
			"generation", gen,
			"airports", len(snap.Airports),
			"airlines", len(snap.Airlines),
			"gates", len(snap.Gates),
			"flights", len(snap.Flights),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return snap, nil
}

// LoadGatesForAirport replaces only the gates collection with the gates of
// one airport. Other collections are untouched.
func (s *EntityStore) LoadGatesForAirport(ctx context.Context, airportID int64) (*Snapshot, error) {
	gen := s.nextGen.Add(1)
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	start := time.Now()
	raw, _, err := s.client.FetchGatesByAirport(ctx, airportID)
	if err != nil {
		err = wrapFetch(common.CollectionGates, err)
		s.fail(gen, "gates", err)
		return s.Snapshot(), err
	}

	gates := make([]entities.Gate, 0)
	for _, g := range s.norm.Gates(raw) {
		// gates without an airport relation are trusted to the server's scoping
		if id, ok := g.Airport.IDValue(); ok && id != airportID {
			continue
		}
		gates = append(gates, g)
	}

	snap, committed := s.commitGates(gen, airportID, gates)
	s.observe("gates", committed, time.Since(start))
	if committed {
		logging.Info("Gates loaded for airport",
			"generation", gen,
			"airport_id", airportID,
			"gates", len(gates),
		)
	}
	return snap, nil
}

func (s *EntityStore) commitFull(next *Snapshot) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap
	if next.Generation <= cur.Generation {
		s.discard(next.Generation, cur.Generation)
		return cur, false
	}

	// a newer gate-only load keeps its result
	if next.Generation < cur.GatesGeneration {
		next.Gates = cur.Gates
		next.GatesGeneration = cur.GatesGeneration
		next.GatesAirportID = cur.GatesAirportID
	}

	s.snap = next
	s.lastErr = nil
	s.recordSizes(next)
	return next, true
}

func (s *EntityStore) commitGates(gen uint64, airportID int64, gates []entities.Gate) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap
	if gen <= cur.GatesGeneration {
		s.discard(gen, cur.GatesGeneration)
		return cur, false
	}

	next := *cur
	next.Gates = gates
	next.GatesGeneration = gen
	next.GatesAirportID = &airportID
	s.snap = &next
	s.recordSizes(&next)
	return &next, true
}

func (s *EntityStore) fail(gen uint64, scope string, err error) {
	s.mu.Lock()
	// a failure older than the committed snapshot is no longer relevant
	if gen > s.snap.Generation {
		s.lastErr = err
	}
	s.mu.Unlock()

	logging.Error("Entity store load failed",
		"scope", scope,
		"generation", gen,
		"error", err.Error(),
		"code", providers.ErrorCode(err),
	)
	if s.metrics != nil {
		s.metrics.StoreLoadsTotal.WithLabelValues(scope, "error").Inc()
	}
}

// discard must be called with s.mu held.
func (s *EntityStore) discard(gen, current uint64) {
	logging.Debug("Discarding stale load completion",
		"generation", gen,
		"current_generation", current,
	)
	if s.metrics != nil {
		s.metrics.StoreStaleDiscards.Inc()
	}
}

func (s *EntityStore) observe(scope string, committed bool, d time.Duration) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if !committed {
		result = "stale"
	}
	s.metrics.StoreLoadsTotal.WithLabelValues(scope, result).Inc()
	if scope == "full" {
		s.metrics.StoreLoadDuration.Observe(d.Seconds())
	}
}

// recordSizes must be called with s.mu held.
func (s *EntityStore) recordSizes(snap *Snapshot) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreCollectionSize.WithLabelValues(common.CollectionAirports).Set(float64(len(snap.Airports)))
	s.metrics.StoreCollectionSize.WithLabelValues(common.CollectionAirlines).Set(float64(len(snap.Airlines)))
	s.metrics.StoreCollectionSize.WithLabelValues(common.CollectionGates).Set(float64(len(snap.Gates)))
	s.metrics.StoreCollectionSize.WithLabelValues(common.CollectionFlights).Set(float64(len(snap.Flights)))
}

func wrapFetch(collection string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fetch %s: %w", collection, err)
}
