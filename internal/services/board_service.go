package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"infinite-experiment/flightboard/internal/board"
	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/providers"
	"infinite-experiment/flightboard/internal/store"

	"github.com/google/uuid"
)

const boardCachePattern = "board"

// BoardService owns the board selection and serves derived views of the
// entity store's current snapshot.
type BoardService struct {
	store    *store.EntityStore
	client   providers.FlightOpsClient
	norm     *common.Normalizer
	cache    common.CacheInterface
	cacheTTL time.Duration
	loc      *time.Location
	metrics  *metrics.MetricsRegistry

	// instance keeps replicas sharing a Redis cache apart; generations are
	// per process.
	instance string

	mu        sync.Mutex
	selection board.Selection
}

// NewBoardService builds the service. cache and m may be nil.
func NewBoardService(
	s *store.EntityStore,
	client providers.FlightOpsClient,
	norm *common.Normalizer,
	cache common.CacheInterface,
	cacheTTL time.Duration,
	loc *time.Location,
	m *metrics.MetricsRegistry,
) *BoardService {
	if loc == nil {
		loc = time.UTC
	}
	return &BoardService{
		store:     s,
		client:    client,
		norm:      norm,
		cache:     cache,
		cacheTTL:  cacheTTL,
		loc:       loc,
		metrics:   m,
		instance:  uuid.New().String(),
		selection: board.Selection{Direction: board.Departures},
	}
}

// Selection returns the current selection, defaulting the airport to the
// first loaded one when none has been chosen.
func (s *BoardService) Selection() board.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked()
}

// Select changes the airport and/or direction; nil arguments keep the
// current value.
func (s *BoardService) Select(airportID *int64, dir *board.Direction) board.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if airportID != nil {
		id := *airportID
		s.selection.AirportID = &id
	}
	if dir != nil {
		s.selection.Direction = *dir
	}
	return s.resolveLocked()
}

func (s *BoardService) resolveLocked() board.Selection {
	if s.selection.AirportID == nil {
		s.selection.AirportID = board.DefaultAirport(nil, s.store.Snapshot().Airports)
	}
	sel := s.selection
	if sel.AirportID != nil {
		id := *sel.AirportID
		sel.AirportID = &id
	}
	return sel
}

// Board derives the board for sel. With source "server" the flights are
// fetched pre-filtered from the service instead of the local snapshot.
func (s *BoardService) Board(ctx context.Context, sel board.Selection, source string) (*dtos.Board, error) {
	if source == constants.BoardSourceServer {
		return s.serverBoard(ctx, sel)
	}

	snap := s.store.Snapshot()
	out := s.newBoard(sel, constants.BoardSourceClient, snap.Generation)
	if sel.AirportID == nil {
		return out, nil
	}

	key := fmt.Sprintf("%s%s:%d:%d:%s:%s",
		constants.CachePrefixBoard, s.instance, snap.Generation, *sel.AirportID, sel.Direction, s.loc)

	if rows, ok := s.cachedRows(key); ok {
		out.Rows = rows
		return out, nil
	}

	out.Rows = board.Derive(snap.Flights, sel, s.loc)
	s.storeRows(key, out.Rows)
	return out, nil
}

func (s *BoardService) serverBoard(ctx context.Context, sel board.Selection) (*dtos.Board, error) {
	out := s.newBoard(sel, constants.BoardSourceServer, s.store.Snapshot().Generation)
	if sel.AirportID == nil {
		return out, nil
	}

	var (
		raw json.RawMessage
		err error
	)
	if sel.Direction == board.Arrivals {
		raw, _, err = s.client.FetchArrivals(ctx, *sel.AirportID)
	} else {
		raw, _, err = s.client.FetchDepartures(ctx, *sel.AirportID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sel.Direction, err)
	}

	// the service filters already; deriving again keeps the row contract
	out.Rows = board.Derive(s.norm.Flights(raw), sel, s.loc)
	return out, nil
}

func (s *BoardService) newBoard(sel board.Selection, source string, gen uint64) *dtos.Board {
	return &dtos.Board{
		AirportID:   sel.AirportID,
		Direction:   string(sel.Direction),
		ColumnTitle: sel.Direction.ColumnTitle(),
		Source:      source,
		Generation:  gen,
		Rows:        []dtos.BoardRow{},
	}
}

func (s *BoardService) cachedRows(key string) ([]dtos.BoardRow, bool) {
	if s.cache == nil {
		return nil, false
	}
	if data, found := s.cache.Get(key); found {
		var rows []dtos.BoardRow
		if err := json.Unmarshal(data, &rows); err == nil && rows != nil {
			if s.metrics != nil {
				s.metrics.CacheHitsTotal.WithLabelValues(boardCachePattern).Inc()
			}
			return rows, true
		}
		logging.Warn("Discarding unreadable board cache entry", "key", key)
		s.cache.Delete(key)
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.WithLabelValues(boardCachePattern).Inc()
	}
	return nil, false
}

func (s *BoardService) storeRows(key string, rows []dtos.BoardRow) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		logging.Warn("Failed to encode board rows for cache", "error", err.Error())
		return
	}
	s.cache.Set(key, data, s.cacheTTL)
}

// ============================================================================
// Admin views
// ============================================================================

func (s *BoardService) AirportOptions() dtos.AirportOptions {
	sel := s.Selection()
	return dtos.AirportOptions{
		Selected: sel.AirportID,
		Options:  board.AirportSelectOptions(s.store.Snapshot().Airports),
	}
}

func (s *BoardService) AirlineOptions() []dtos.Option {
	return board.AirlineSelectOptions(s.store.Snapshot().Airlines)
}

// GateOptions lists gates for a flight form whose departure airport is
// departureAirportID, or every gate when it is nil.
func (s *BoardService) GateOptions(departureAirportID *int64) []dtos.Option {
	gates := board.GateOptions(s.store.Snapshot().Gates, departureAirportID)
	return board.GateSelectOptions(gates)
}

func (s *BoardService) AdminFlights() []dtos.AdminFlightRow {
	return board.AdminRows(s.store.Snapshot().Flights, s.loc)
}

func (s *BoardService) GateRows() []dtos.GateRow {
	return board.GateRows(s.store.Snapshot().Gates)
}

// Location is the zone board times are rendered in.
func (s *BoardService) Location() *time.Location {
	return s.loc
}
