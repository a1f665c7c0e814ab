package export

import (
	"bytes"
	"testing"
	"time"

	"infinite-experiment/flightboard/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBoardPDF(t *testing.T) {
	b := &dtos.Board{
		Direction:   "departures",
		ColumnTitle: "To",
		Source:      "client",
		Generation:  3,
		Rows: []dtos.BoardRow{
			{FlightNumber: "AA123", Airline: "N/A", Airport: "LAX", Time: "09:00", Gate: "-", StatusCategory: "SCHEDULED", StatusColor: "blue", AircraftType: "-"},
			{FlightNumber: "DL9", Airline: "Delta (DL)", Airport: "Hartsfield-Jackson (ATL)", Time: "23:05", Gate: "B12", StatusCategory: "DELAYED", StatusColor: "purple", AircraftType: "A321"},
		},
	}

	var buf bytes.Buffer
	err := RenderBoardPDF(&buf, "JFK Departures", b, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderBoardPDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBoardPDF(&buf, "Arrivals", &dtos.Board{ColumnTitle: "From", Rows: []dtos.BoardRow{}}, time.Now())
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
}
