package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/models/entities"
)

// MockFlightOpsClient is a FlightOpsClient whose behaviour is set per test.
// Unset fetch funcs answer with an empty collection; unset write funcs fail.
type MockFlightOpsClient struct {
	FetchAirportsFunc       func(ctx context.Context) (json.RawMessage, int, error)
	FetchAirlinesFunc       func(ctx context.Context) (json.RawMessage, int, error)
	FetchGatesFunc          func(ctx context.Context) (json.RawMessage, int, error)
	FetchGatesByAirportFunc func(ctx context.Context, airportID int64) (json.RawMessage, int, error)
	FetchFlightsFunc        func(ctx context.Context) (json.RawMessage, int, error)
	FetchDeparturesFunc     func(ctx context.Context, airportID int64) (json.RawMessage, int, error)
	FetchArrivalsFunc       func(ctx context.Context, airportID int64) (json.RawMessage, int, error)

	CreateFunc func(ctx context.Context, kind entities.EntityKind, payload any) (json.RawMessage, int, error)
	UpdateFunc func(ctx context.Context, kind entities.EntityKind, id int64, payload any) (json.RawMessage, int, error)
	DeleteFunc func(ctx context.Context, kind entities.EntityKind, id int64) (int, error)
}

var _ FlightOpsClient = (*MockFlightOpsClient)(nil)

func emptyCollection() (json.RawMessage, int, error) {
	return json.RawMessage("[]"), http.StatusOK, nil
}

func notConfigured(op string) error {
	return &ProviderError{Code: constants.ErrCodeNetworkError, Message: op + " not configured on mock"}
}

func (m *MockFlightOpsClient) FetchAirports(ctx context.Context) (json.RawMessage, int, error) {
	if m.FetchAirportsFunc == nil {
		return emptyCollection()
	}
	return m.FetchAirportsFunc(ctx)
}

func (m *MockFlightOpsClient) FetchAirlines(ctx context.Context) (json.RawMessage, int, error) {
	if m.FetchAirlinesFunc == nil {
		return emptyCollection()
	}
	return m.FetchAirlinesFunc(ctx)
}

func (m *MockFlightOpsClient) FetchGates(ctx context.Context) (json.RawMessage, int, error) {
	if m.FetchGatesFunc == nil {
		return emptyCollection()
	}
	return m.FetchGatesFunc(ctx)
}

func (m *MockFlightOpsClient) FetchGatesByAirport(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
	if m.FetchGatesByAirportFunc == nil {
		return emptyCollection()
	}
	return m.FetchGatesByAirportFunc(ctx, airportID)
}

func (m *MockFlightOpsClient) FetchFlights(ctx context.Context) (json.RawMessage, int, error) {
	if m.FetchFlightsFunc == nil {
		return emptyCollection()
	}
	return m.FetchFlightsFunc(ctx)
}

func (m *MockFlightOpsClient) FetchDepartures(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
	if m.FetchDeparturesFunc == nil {
		return emptyCollection()
	}
	return m.FetchDeparturesFunc(ctx, airportID)
}

func (m *MockFlightOpsClient) FetchArrivals(ctx context.Context, airportID int64) (json.RawMessage, int, error) {
	if m.FetchArrivalsFunc == nil {
		return emptyCollection()
	}
	return m.FetchArrivalsFunc(ctx, airportID)
}

func (m *MockFlightOpsClient) Create(ctx context.Context, kind entities.EntityKind, payload any) (json.RawMessage, int, error) {
	if m.CreateFunc == nil {
		return nil, 0, notConfigured("create")
	}
	return m.CreateFunc(ctx, kind, payload)
}

func (m *MockFlightOpsClient) Update(ctx context.Context, kind entities.EntityKind, id int64, payload any) (json.RawMessage, int, error) {
	if m.UpdateFunc == nil {
		return nil, 0, notConfigured("update")
	}
	return m.UpdateFunc(ctx, kind, id, payload)
}

func (m *MockFlightOpsClient) Delete(ctx context.Context, kind entities.EntityKind, id int64) (int, error) {
	if m.DeleteFunc == nil {
		return 0, notConfigured("delete")
	}
	return m.DeleteFunc(ctx, kind, id)
}
