package board

import (
	"testing"
	"time"

	"infinite-experiment/flightboard/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGates() []entities.Gate {
	return []entities.Gate{
		{ID: 5, Code: "A1", Terminal: "T1", Airport: entities.RefTo[entities.Airport](1)},
		{ID: 6, Code: "B7", Airport: entities.RefTo[entities.Airport](2)},
	}
}

func TestGateOptions_FilteredByDepartureAirport(t *testing.T) {
	opts := GateOptions(sampleGates(), int64Ptr(1))

	require.Len(t, opts, 1)
	assert.Equal(t, int64(5), opts[0].ID)
}

func TestGateOptions_NoDepartureAirportOffersAll(t *testing.T) {
	gates := sampleGates()
	opts := GateOptions(gates, nil)

	assert.Equal(t, gates, opts)
}

func TestGateOptions_GateWithoutAirportIsExcludedWhenFiltering(t *testing.T) {
	gates := append(sampleGates(), entities.Gate{ID: 9, Code: "Z9"})

	assert.Len(t, GateOptions(gates, int64Ptr(1)), 1)
	assert.Len(t, GateOptions(gates, nil), 3)
}

func TestGateSelectOptions_Labels(t *testing.T) {
	opts := GateSelectOptions(sampleGates())

	require.Len(t, opts, 2)
	assert.Equal(t, "T1-A1", opts[0].Label)
	assert.Equal(t, "B7", opts[1].Label)
}

func TestAdminRows(t *testing.T) {
	rows := AdminRows(sampleFlights(), time.UTC)

	require.Len(t, rows, 1)
	assert.Equal(t, "JFK @ 09:00", rows[0].Departure)
	assert.Equal(t, "LAX @ -", rows[0].Arrival)
	assert.Equal(t, NotAvailable, rows[0].Airline)
	assert.Equal(t, "SCHEDULED", rows[0].Status)
}

func TestGateRows(t *testing.T) {
	gates := sampleGates()
	gates[1].Airport = airportRef(2, "Los Angeles", "LAX")

	rows := GateRows(gates)

	require.Len(t, rows, 2)
	assert.Equal(t, NotAvailable, rows[0].Airport)
	assert.Equal(t, "T1", rows[0].Terminal)
	assert.Equal(t, "Los Angeles (LAX)", rows[1].Airport)
	assert.Equal(t, Dash, rows[1].Terminal)
}

func TestDefaultAirport(t *testing.T) {
	airports := []entities.Airport{{ID: 4, Code: "SFO"}, {ID: 1, Code: "JFK"}}

	assert.Nil(t, DefaultAirport(nil, nil))
	assert.Equal(t, int64(4), *DefaultAirport(nil, airports))
	assert.Equal(t, int64(1), *DefaultAirport(int64Ptr(1), airports))
}

func TestSelectOptions(t *testing.T) {
	airports := AirportSelectOptions([]entities.Airport{{ID: 1, Name: "John F. Kennedy", Code: "JFK"}})
	airlines := AirlineSelectOptions([]entities.Airline{{ID: 10, Code: "AA"}})

	assert.Equal(t, "John F. Kennedy (JFK)", airports[0].Label)
	assert.Equal(t, "AA", airlines[0].Label)
}
