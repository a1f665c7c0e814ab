package board

import (
	"testing"
	"time"

	"infinite-experiment/flightboard/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func timePtr(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func airportRef(id int64, name, code string) entities.Ref[entities.Airport] {
	return entities.Ref[entities.Airport]{ID: &id, Record: &entities.Airport{ID: id, Name: name, Code: code}}
}

func sampleFlights() []entities.Flight {
	return []entities.Flight{
		{
			ID:               101,
			FlightNumber:     "AA123",
			DepartureAirport: airportRef(1, "", "JFK"),
			ArrivalAirport:   airportRef(2, "", "LAX"),
			DepartureTime:    timePtr("2024-01-01T09:00:00Z"),
			Status:           entities.StatusScheduled,
		},
	}
}

func TestDerive_DeparturesForSelectedAirport(t *testing.T) {
	rows := Derive(sampleFlights(), Selection{AirportID: int64Ptr(1), Direction: Departures}, time.UTC)

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, int64(101), row.FlightID)
	assert.Equal(t, "AA123", row.FlightNumber)
	assert.Equal(t, "LAX", row.Airport)
	assert.Equal(t, "09:00", row.Time)
	assert.Equal(t, "SCHEDULED", row.StatusCategory)
	assert.Equal(t, "blue", row.StatusColor)
	assert.Equal(t, NotAvailable, row.Airline)
	assert.Equal(t, Dash, row.Gate)
	assert.Equal(t, Dash, row.AircraftType)
}

func TestDerive_OtherAirportIsEmpty(t *testing.T) {
	rows := Derive(sampleFlights(), Selection{AirportID: int64Ptr(2), Direction: Departures}, time.UTC)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDerive_ArrivalsShowOrigin(t *testing.T) {
	flights := sampleFlights()
	flights[0].ArrivalTime = timePtr("2024-01-01T15:45:00Z")

	rows := Derive(flights, Selection{AirportID: int64Ptr(2), Direction: Arrivals}, time.UTC)

	require.Len(t, rows, 1)
	assert.Equal(t, "JFK", rows[0].Airport)
	assert.Equal(t, "15:45", rows[0].Time)
}

func TestDerive_NoSelectionIsEmpty(t *testing.T) {
	rows := Derive(sampleFlights(), Selection{Direction: Departures}, time.UTC)
	assert.Empty(t, rows)
}

func TestDerive_ExcludesFlightsMissingAirportID(t *testing.T) {
	flights := []entities.Flight{
		{ID: 1, FlightNumber: "NO1"},
		{ID: 2, FlightNumber: "NO2", DepartureAirport: entities.Ref[entities.Airport]{Record: &entities.Airport{Code: "JFK"}}},
		{ID: 3, FlightNumber: "YES3", DepartureAirport: entities.RefTo[entities.Airport](1)},
	}

	rows := Derive(flights, Selection{AirportID: int64Ptr(1), Direction: Departures}, time.UTC)

	require.Len(t, rows, 1)
	assert.Equal(t, "YES3", rows[0].FlightNumber)
	assert.Equal(t, NotAvailable, rows[0].Airport)
	assert.Equal(t, Dash, rows[0].Time)
	assert.Equal(t, Dash, rows[0].Status)
	assert.Equal(t, "UNKNOWN", rows[0].StatusCategory)
}

func TestDerive_KeepsInputOrderAndIsIdempotent(t *testing.T) {
	flights := []entities.Flight{
		{ID: 3, FlightNumber: "C3", DepartureAirport: entities.RefTo[entities.Airport](1)},
		{ID: 1, FlightNumber: "A1", DepartureAirport: entities.RefTo[entities.Airport](1)},
		{ID: 2, FlightNumber: "B2", DepartureAirport: entities.RefTo[entities.Airport](1)},
	}
	sel := Selection{AirportID: int64Ptr(1), Direction: Departures}

	first := Derive(flights, sel, time.UTC)
	second := Derive(flights, sel, time.UTC)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "C3", first[0].FlightNumber)
	assert.Equal(t, "A1", first[1].FlightNumber)
	assert.Equal(t, "B2", first[2].FlightNumber)
}

func TestDerive_FullRelations(t *testing.T) {
	gateID := int64(5)
	airlineID := int64(10)
	flights := []entities.Flight{{
		ID:               7,
		FlightNumber:     "DL9",
		Airline:          entities.Ref[entities.Airline]{ID: &airlineID, Record: &entities.Airline{ID: 10, Name: "Delta", Code: "DL"}},
		DepartureAirport: airportRef(1, "John F. Kennedy", "JFK"),
		ArrivalAirport:   airportRef(3, "Hartsfield-Jackson", "ATL"),
		DepartureTime:    timePtr("2024-01-01T23:05:00Z"),
		Gate:             entities.Ref[entities.Gate]{ID: &gateID, Record: &entities.Gate{ID: 5, Code: "B12"}},
		Status:           entities.StatusDelayed,
		AircraftType:     "A321",
	}}

	rows := Derive(flights, Selection{AirportID: int64Ptr(1), Direction: Departures}, time.UTC)

	require.Len(t, rows, 1)
	assert.Equal(t, "Delta (DL)", rows[0].Airline)
	assert.Equal(t, "Hartsfield-Jackson (ATL)", rows[0].Airport)
	assert.Equal(t, "B12", rows[0].Gate)
	assert.Equal(t, "DELAYED", rows[0].StatusCategory)
	assert.Equal(t, "purple", rows[0].StatusColor)
	assert.Equal(t, "A321", rows[0].AircraftType)
}

func TestTimeLabel_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "11:00", TimeLabel(timePtr("2024-01-01T09:00:00Z"), loc))
	assert.Equal(t, Dash, TimeLabel(nil, loc))
}

func TestNameCode(t *testing.T) {
	assert.Equal(t, "Delta (DL)", NameCode("Delta", "DL"))
	assert.Equal(t, "Delta", NameCode("Delta", ""))
	assert.Equal(t, "DL", NameCode("", "DL"))
	assert.Equal(t, NotAvailable, NameCode("", ""))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "green", Categorize(entities.StatusArrived).Color)
	assert.Equal(t, "gray", Categorize(entities.StatusCancelled).Color)
	assert.Equal(t, UnknownStatus, Categorize("TAXIING"))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("")
	assert.True(t, ok)
	assert.Equal(t, Departures, d)

	d, ok = ParseDirection("Arrivals")
	assert.True(t, ok)
	assert.Equal(t, Arrivals, d)
	assert.Equal(t, "From", d.ColumnTitle())
	assert.Equal(t, "To", Departures.ColumnTitle())

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
