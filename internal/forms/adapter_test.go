package forms

import (
	"encoding/json"
	"testing"
	"time"

	"infinite-experiment/flightboard/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func validFlightForm() dtos.FlightForm {
	return dtos.FlightForm{
		FlightNumber:       " AA123 ",
		AirlineID:          int64Ptr(10),
		DepartureAirportID: int64Ptr(1),
		ArrivalAirportID:   int64Ptr(2),
		GateID:             int64Ptr(5),
		DepartureTime:      "2024-01-01 09:00:00",
		ArrivalTime:        "2024-01-01 15:30:00",
	}
}

func TestFlightPayload_WrapsRelationsAndConvertsTimes(t *testing.T) {
	a := NewAdapter(time.UTC)

	p, err := a.FlightPayload(validFlightForm())
	require.NoError(t, err)

	assert.Equal(t, "AA123", p.FlightNumber)
	assert.Equal(t, dtos.IDRef{ID: 10}, p.Airline)
	assert.Equal(t, dtos.IDRef{ID: 1}, p.DepartureAirport)
	assert.Equal(t, dtos.IDRef{ID: 2}, p.ArrivalAirport)
	require.NotNil(t, p.Gate)
	assert.Equal(t, int64(5), p.Gate.ID)
	assert.Equal(t, "2024-01-01T09:00:00.000Z", p.DepartureTime)
	assert.Equal(t, "2024-01-01T15:30:00.000Z", p.ArrivalTime)
	assert.Equal(t, "SCHEDULED", p.Status)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"airline":{"id":10}`)
	assert.Contains(t, string(body), `"gate":{"id":5}`)
}

func TestFlightPayload_PickerZoneIsApplied(t *testing.T) {
	a := NewAdapter(time.FixedZone("UTC+2", 2*60*60))
	form := validFlightForm()
	form.DepartureTime = "2024-01-01T09:00"
	form.ArrivalTime = "2024-01-01T10:00:00-05:00"

	p, err := a.FlightPayload(form)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T07:00:00.000Z", p.DepartureTime)
	assert.Equal(t, "2024-01-01T15:00:00.000Z", p.ArrivalTime)
}

func TestFlightPayload_OptionalGateAndExplicitStatus(t *testing.T) {
	form := validFlightForm()
	form.GateID = nil
	form.Status = "boarding"

	p, err := NewAdapter(time.UTC).FlightPayload(form)
	require.NoError(t, err)
	assert.Nil(t, p.Gate)
	assert.Equal(t, "BOARDING", p.Status)

	body, _ := json.Marshal(p)
	assert.Contains(t, string(body), `"gate":null`)
}

func TestFlightPayload_ReportsEveryInvalidField(t *testing.T) {
	_, err := NewAdapter(time.UTC).FlightPayload(dtos.FlightForm{
		DepartureTime: "tomorrow",
		Status:        "TAXIING",
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, msgRequired, verrs["flightNumber"])
	assert.Equal(t, msgRequired, verrs["airlineId"])
	assert.Equal(t, msgRequired, verrs["departureAirportId"])
	assert.Equal(t, msgRequired, verrs["arrivalAirportId"])
	assert.Equal(t, msgInvalidTime, verrs["departureTime"])
	assert.Equal(t, msgRequired, verrs["arrivalTime"])
	assert.Equal(t, msgUnknownState, verrs["status"])
	assert.NotContains(t, verrs, "gateId")
	assert.Contains(t, err.Error(), "airlineId: is required")
}

func TestAirlinePayload(t *testing.T) {
	a := NewAdapter(nil)

	p, err := a.AirlinePayload(dtos.AirlineForm{Name: " Delta ", Code: "dl", Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, dtos.AirlinePayload{Name: "Delta", Code: "DL", Country: "USA"}, p)

	_, err = a.AirlinePayload(dtos.AirlineForm{Name: "Delta", Code: "DAL"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "code")
}

func TestGatePayload(t *testing.T) {
	a := NewAdapter(nil)

	p, err := a.GatePayload(dtos.GateForm{Code: "A1", AirportID: int64Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, dtos.GatePayload{Code: "A1", Airport: dtos.IDRef{ID: 1}}, p)

	_, err = a.GatePayload(dtos.GateForm{Terminal: "T1"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}
