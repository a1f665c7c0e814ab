package store

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/providers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	airportsJSON = `[{"id":1,"name":"John F. Kennedy","code":"JFK"},{"id":2,"name":"Los Angeles","code":"LAX"}]`
	airlinesJSON = `[{"id":10,"name":"American","code":"AA"}]`
	gatesJSON    = `[{"id":5,"code":"A1","terminal":"T1","airport":{"id":1}},{"id":6,"code":"B7","airport":{"id":2}}]`
	flightsJSON  = `[{"id":100,"flightNumber":"AA123","airline":{"id":10,"name":"American","code":"AA"},` +
		`"departureAirport":{"id":1,"code":"JFK"},"arrivalAirport":{"id":2,"name":"Los Angeles","code":"LAX"},` +
		`"departureTime":"2024-05-01T09:00:00Z","status":"SCHEDULED"}]`
)

func ok(body string) func(ctx context.Context) (json.RawMessage, int, error) {
	return func(ctx context.Context) (json.RawMessage, int, error) {
		return json.RawMessage(body), http.StatusOK, nil
	}
}

func fullMock() *providers.MockFlightOpsClient {
	return &providers.MockFlightOpsClient{
		FetchAirportsFunc: ok(airportsJSON),
		FetchAirlinesFunc: ok(airlinesJSON),
		FetchGatesFunc:    ok(gatesJSON),
		FetchFlightsFunc:  ok(flightsJSON),
	}
}

func newTestStore(client providers.FlightOpsClient) (*EntityStore, *metrics.MetricsRegistry) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	return NewEntityStore(client, common.NewNormalizer(time.UTC, m), m), m
}

func TestEntityStore_InitialSnapshotIsEmpty(t *testing.T) {
	s, _ := newTestStore(fullMock())

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.False(t, snap.Loaded())
	assert.NotNil(t, snap.Flights)
	assert.Empty(t, snap.Flights)
	assert.False(t, s.Loading())
	assert.NoError(t, s.LastError())
}

func TestEntityStore_Load_CommitsAllCollections(t *testing.T) {
	s, m := newTestStore(fullMock())

	snap, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.Loaded())
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Len(t, snap.Airports, 2)
	assert.Len(t, snap.Airlines, 1)
	assert.Len(t, snap.Gates, 2)
	require.Len(t, snap.Flights, 1)
	assert.Equal(t, "AA123", snap.Flights[0].FlightNumber)
	assert.False(t, s.Loading())
	assert.Same(t, snap, s.Snapshot())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreLoadsTotal.WithLabelValues("full", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StoreCollectionSize.WithLabelValues("airports")))
}

func TestEntityStore_Load_FailureKeepsPriorSnapshot(t *testing.T) {
	client := fullMock()
	s, m := newTestStore(client)

	before, err := s.Load(context.Background())
	require.NoError(t, err)

	client.FetchAirlinesFunc = func(ctx context.Context) (json.RawMessage, int, error) {
		return nil, http.StatusBadGateway, &providers.ProviderError{Code: "UPSTREAM_ERROR", Message: "HTTP 502"}
	}

	after, err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, providers.IsTransportFailure(err))
	assert.Contains(t, err.Error(), "fetch airlines")

	assert.Same(t, before, after)
	assert.Same(t, before, s.Snapshot())
	assert.Error(t, s.LastError())
	assert.False(t, s.Loading())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreLoadsTotal.WithLabelValues("full", "error")))

	// next success clears the error
	client.FetchAirlinesFunc = ok(airlinesJSON)
	_, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.NoError(t, s.LastError())
}

func TestEntityStore_Load_MalformedPayloadsBecomeEmpty(t *testing.T) {
	client := fullMock()
	client.FetchFlightsFunc = ok(`{"error":"oops"}`)
	client.FetchAirportsFunc = ok(`[{"id":1,"code":"JFK"},{"name":"no id"},42]`)
	s, _ := newTestStore(client)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Flights)
	assert.Empty(t, snap.Flights)
	assert.Len(t, snap.Airports, 1)
}

func TestEntityStore_Load_StaleCompletionIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32

	client := fullMock()
	client.FetchFlightsFunc = func(ctx context.Context) (json.RawMessage, int, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return json.RawMessage(`[{"id":1,"flightNumber":"OLD1"}]`), http.StatusOK, nil
		}
		return json.RawMessage(`[{"id":2,"flightNumber":"NEW2"}]`), http.StatusOK, nil
	}
	s, m := newTestStore(client)

	done := make(chan *Snapshot)
	go func() {
		snap, _ := s.Load(context.Background())
		done <- snap
	}()
	<-entered
	assert.True(t, s.Loading())

	newer, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, newer.Flights, 1)
	assert.Equal(t, "NEW2", newer.Flights[0].FlightNumber)

	close(release)
	older := <-done

	assert.Same(t, newer, older)
	assert.Equal(t, "NEW2", s.Snapshot().Flights[0].FlightNumber)
	assert.Equal(t, uint64(2), s.Snapshot().Generation)
	assert.False(t, s.Loading())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreStaleDiscards))
}

func TestEntityStore_LoadGatesForAirport_ReplacesOnlyGates(t *testing.T) {
	client := fullMock()
	client.FetchGatesByAirportFunc = func(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
		assert.Equal(t, int64(1), airportID)
		return json.RawMessage(`[{"id":5,"code":"A1","airport":{"id":1}},{"id":9,"code":"Z9","airport":{"id":2}},{"id":7,"code":"A3"}]`), http.StatusOK, nil
	}
	s, _ := newTestStore(client)

	full, err := s.Load(context.Background())
	require.NoError(t, err)

	scoped, err := s.LoadGatesForAirport(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, scoped.Gates, 2)
	assert.Equal(t, "A1", scoped.Gates[0].Code)
	assert.Equal(t, "A3", scoped.Gates[1].Code)
	require.NotNil(t, scoped.GatesAirportID)
	assert.Equal(t, int64(1), *scoped.GatesAirportID)

	assert.Equal(t, full.Generation, scoped.Generation)
	assert.Greater(t, scoped.GatesGeneration, full.Generation)
	assert.Equal(t, full.Flights, scoped.Flights)
	assert.Equal(t, full.Airports, scoped.Airports)
	assert.Len(t, full.Gates, 2, "published snapshots are never modified")
}

func TestEntityStore_LoadGatesForAirport_FailureKeepsGates(t *testing.T) {
	client := fullMock()
	client.FetchGatesByAirportFunc = func(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
		return nil, 0, &providers.ProviderError{Code: "NETWORK_ERROR", Message: "down"}
	}
	s, _ := newTestStore(client)

	full, err := s.Load(context.Background())
	require.NoError(t, err)

	snap, err := s.LoadGatesForAirport(context.Background(), 1)
	require.Error(t, err)
	assert.Same(t, full, snap)
	assert.Len(t, s.Snapshot().Gates, 2)
}

func TestEntityStore_OlderFullLoadKeepsNewerGates(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	client := fullMock()
	client.FetchGatesFunc = func(ctx context.Context) (json.RawMessage, int, error) {
		close(entered)
		<-release
		return json.RawMessage(gatesJSON), http.StatusOK, nil
	}
	client.FetchGatesByAirportFunc = func(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
		return json.RawMessage(`[{"id":6,"code":"B7","airport":{"id":2}}]`), http.StatusOK, nil
	}
	s, _ := newTestStore(client)

	done := make(chan *Snapshot)
	go func() {
		snap, _ := s.Load(context.Background())
		done <- snap
	}()
	<-entered

	_, err := s.LoadGatesForAirport(context.Background(), 2)
	require.NoError(t, err)

	close(release)
	snap := <-done

	assert.True(t, snap.Loaded())
	assert.Len(t, snap.Flights, 1)
	require.Len(t, snap.Gates, 1)
	assert.Equal(t, "B7", snap.Gates[0].Code)
}
