package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"infinite-experiment/flightboard/internal/board"
	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/providers"
	"infinite-experiment/flightboard/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func setupBoardService(t *testing.T, client *providers.MockFlightOpsClient, load bool) (*BoardService, *store.EntityStore, *metrics.MetricsRegistry) {
	t.Helper()
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	norm := common.NewNormalizer(time.UTC, m)
	s := store.NewEntityStore(client, norm, m)
	if load {
		_, err := s.Load(context.Background())
		require.NoError(t, err)
	}
	cache := common.NewCacheService(time.Minute, time.Minute)
	t.Cleanup(func() { cache.Close() })
	return NewBoardService(s, client, norm, cache, time.Minute, time.UTC, m), s, m
}

func TestBoardService_SelectionDefaultsToFirstAirport(t *testing.T) {
	svc, s, _ := setupBoardService(t, newFakeBackend().client(), false)

	assert.Nil(t, svc.Selection().AirportID, "nothing to select before the first load")

	_, err := s.Load(context.Background())
	require.NoError(t, err)

	sel := svc.Selection()
	require.NotNil(t, sel.AirportID)
	assert.Equal(t, int64(1), *sel.AirportID)
	assert.Equal(t, board.Departures, sel.Direction)

	arrivals := board.Arrivals
	sel = svc.Select(int64Ptr(2), &arrivals)
	assert.Equal(t, int64(2), *sel.AirportID)
	assert.Equal(t, board.Arrivals, svc.Selection().Direction)
}

func TestBoardService_ClientBoardIsCachedPerGeneration(t *testing.T) {
	svc, _, m := setupBoardService(t, newFakeBackend().client(), true)
	sel := board.Selection{AirportID: int64Ptr(1), Direction: board.Departures}

	first, err := svc.Board(context.Background(), sel, constants.BoardSourceClient)
	require.NoError(t, err)
	second, err := svc.Board(context.Background(), sel, "")
	require.NoError(t, err)

	require.Len(t, first.Rows, 1)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, "LAX", first.Rows[0].Airport)
	assert.Equal(t, "To", first.ColumnTitle)
	assert.Equal(t, constants.BoardSourceClient, first.Source)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues(boardCachePattern)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues(boardCachePattern)))
}

func TestBoardService_NewGenerationIsNotServedFromCache(t *testing.T) {
	backend := newFakeBackend()
	svc, s, _ := setupBoardService(t, backend.client(), true)
	sel := board.Selection{AirportID: int64Ptr(1), Direction: board.Departures}

	before, err := svc.Board(context.Background(), sel, constants.BoardSourceClient)
	require.NoError(t, err)
	require.Len(t, before.Rows, 1)

	backend.mu.Lock()
	backend.flights = append(backend.flights, `{"id":102,"flightNumber":"AA7","departureAirport":{"id":1}}`)
	backend.mu.Unlock()
	_, err = s.Load(context.Background())
	require.NoError(t, err)

	after, err := svc.Board(context.Background(), sel, constants.BoardSourceClient)
	require.NoError(t, err)
	assert.Len(t, after.Rows, 2)
	assert.Greater(t, after.Generation, before.Generation)
}

func TestBoardService_EmptyBoardWithoutSelection(t *testing.T) {
	svc, _, _ := setupBoardService(t, newFakeBackend().client(), false)

	out, err := svc.Board(context.Background(), board.Selection{Direction: board.Arrivals}, constants.BoardSourceClient)
	require.NoError(t, err)
	assert.NotNil(t, out.Rows)
	assert.Empty(t, out.Rows)
	assert.Equal(t, "From", out.ColumnTitle)
}

func TestBoardService_ServerBoard(t *testing.T) {
	client := newFakeBackend().client()
	client.FetchArrivalsFunc = func(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
		assert.Equal(t, int64(2), airportID)
		return json.RawMessage(`[{"id":101,"flightNumber":"AA123","departureAirport":{"id":1,"code":"JFK"},"arrivalAirport":{"id":2,"code":"LAX"},"arrivalTime":"2024-01-01T15:00:00Z"}]`), http.StatusOK, nil
	}
	svc, _, _ := setupBoardService(t, client, true)

	out, err := svc.Board(context.Background(), board.Selection{AirportID: int64Ptr(2), Direction: board.Arrivals}, constants.BoardSourceServer)
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "JFK", out.Rows[0].Airport)
	assert.Equal(t, "15:00", out.Rows[0].Time)
	assert.Equal(t, constants.BoardSourceServer, out.Source)
}

func TestBoardService_ServerBoardFailure(t *testing.T) {
	client := newFakeBackend().client()
	client.FetchDeparturesFunc = func(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
		return nil, 0, &providers.ProviderError{Code: constants.ErrCodeNetworkError, Message: "down"}
	}
	svc, _, _ := setupBoardService(t, client, true)

	_, err := svc.Board(context.Background(), board.Selection{AirportID: int64Ptr(1), Direction: board.Departures}, constants.BoardSourceServer)
	require.Error(t, err)
	assert.True(t, providers.IsTransportFailure(err))
}

func TestBoardService_GateOptions(t *testing.T) {
	svc, _, _ := setupBoardService(t, newFakeBackend().client(), true)

	scoped := svc.GateOptions(int64Ptr(1))
	require.Len(t, scoped, 1)
	assert.Equal(t, int64(5), scoped[0].Value)

	assert.Len(t, svc.GateOptions(nil), 2)
}

func TestBoardService_AdminViews(t *testing.T) {
	svc, _, _ := setupBoardService(t, newFakeBackend().client(), true)

	opts := svc.AirportOptions()
	require.NotNil(t, opts.Selected)
	assert.Equal(t, int64(1), *opts.Selected)
	assert.Equal(t, "John F. Kennedy (JFK)", opts.Options[0].Label)

	rows := svc.AdminFlights()
	require.Len(t, rows, 1)
	assert.Equal(t, "JFK @ 09:00", rows[0].Departure)

	assert.Len(t, svc.GateRows(), 2)
	assert.Empty(t, svc.AirlineOptions())
}
