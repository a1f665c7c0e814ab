package board

import (
	"time"

	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/models/entities"
)

// AdminRows renders the admin flight table. Endpoints read "CODE @ HH:mm".
func AdminRows(flights []entities.Flight, loc *time.Location) []dtos.AdminFlightRow {
	rows := make([]dtos.AdminFlightRow, 0, len(flights))
	for _, f := range flights {
		rows = append(rows, dtos.AdminFlightRow{
			FlightID:     f.ID,
			FlightNumber: f.FlightNumber,
			Airline:      AirlineLabel(f.Airline),
			Departure:    endpoint(f.DepartureAirport, f.DepartureTime, loc),
			Arrival:      endpoint(f.ArrivalAirport, f.ArrivalTime, loc),
			Status:       Categorize(f.Status).Name,
		})
	}
	return rows
}

func endpoint(ref entities.Ref[entities.Airport], t *time.Time, loc *time.Location) string {
	code := NotAvailable
	if ref.Record != nil && ref.Record.Code != "" {
		code = ref.Record.Code
	}
	return code + " @ " + TimeLabel(t, loc)
}

func GateRows(gates []entities.Gate) []dtos.GateRow {
	rows := make([]dtos.GateRow, 0, len(gates))
	for _, g := range gates {
		rows = append(rows, dtos.GateRow{
			GateID:   g.ID,
			Code:     g.Code,
			Terminal: orDash(g.Terminal),
			Airport:  AirportLabel(g.Airport),
		})
	}
	return rows
}

// ============================================================================
// Form options
// ============================================================================

// GateOptions returns the gates selectable for a flight departing from
// departureAirportID. With no departure airport every gate is offered;
// otherwise only gates whose airport id matches.
func GateOptions(gates []entities.Gate, departureAirportID *int64) []entities.Gate {
	out := make([]entities.Gate, 0, len(gates))
	for _, g := range gates {
		if departureAirportID != nil && !g.Airport.Matches(*departureAirportID) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// GateOptionLabel reads "terminal-code", or just the code without a terminal.
func GateOptionLabel(g entities.Gate) string {
	if g.Terminal == "" {
		return g.Code
	}
	return g.Terminal + "-" + g.Code
}

func GateSelectOptions(gates []entities.Gate) []dtos.Option {
	opts := make([]dtos.Option, 0, len(gates))
	for _, g := range gates {
		opts = append(opts, dtos.Option{Value: g.ID, Label: GateOptionLabel(g)})
	}
	return opts
}

func AirportSelectOptions(airports []entities.Airport) []dtos.Option {
	opts := make([]dtos.Option, 0, len(airports))
	for _, a := range airports {
		opts = append(opts, dtos.Option{Value: a.ID, Label: NameCode(a.Name, a.Code)})
	}
	return opts
}

func AirlineSelectOptions(airlines []entities.Airline) []dtos.Option {
	opts := make([]dtos.Option, 0, len(airlines))
	for _, a := range airlines {
		opts = append(opts, dtos.Option{Value: a.ID, Label: NameCode(a.Name, a.Code)})
	}
	return opts
}

// DefaultAirport keeps an existing selection and otherwise picks the first
// airport. It returns nil while there are no airports.
func DefaultAirport(current *int64, airports []entities.Airport) *int64 {
	if current != nil {
		id := *current
		return &id
	}
	if len(airports) == 0 {
		return nil
	}
	id := airports[0].ID
	return &id
}
