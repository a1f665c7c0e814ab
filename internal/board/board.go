// Package board derives display rows from the entity store's collections.
// Everything here is a pure function of its inputs.
package board

import (
	"strings"
	"time"

	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/models/entities"
)

// Placeholders used for absent values.
const (
	NotAvailable = "N/A"
	Dash         = "-"
)

type Direction string

const (
	Departures Direction = "departures"
	Arrivals   Direction = "arrivals"
)

// ParseDirection accepts "departures", "arrivals" or an empty string, which
// means departures.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Departures:
		return Departures, true
	case Arrivals:
		return Arrivals, true
	}
	return "", false
}

// ColumnTitle names the counterpart-airport column.
func (d Direction) ColumnTitle() string {
	if d == Arrivals {
		return "From"
	}
	return "To"
}

// Selection is the airport and direction a board is derived for. A nil
// AirportID selects nothing.
type Selection struct {
	AirportID *int64
	Direction Direction
}

// Derive builds the board rows for sel. For departures a flight belongs to
// the board when its departure airport id equals the selected id, and the
// row shows the arrival airport and departure time; arrivals mirror this.
// Flights whose relevant airport id is absent are excluded. Input order is
// kept and inputs are never modified.
func Derive(flights []entities.Flight, sel Selection, loc *time.Location) []dtos.BoardRow {
	rows := make([]dtos.BoardRow, 0)
	if sel.AirportID == nil {
		return rows
	}
	airportID := *sel.AirportID

	for _, f := range flights {
		var (
			match   entities.Ref[entities.Airport]
			counter entities.Ref[entities.Airport]
			when    *time.Time
		)
		if sel.Direction == Arrivals {
			match, counter, when = f.ArrivalAirport, f.DepartureAirport, f.ArrivalTime
		} else {
			match, counter, when = f.DepartureAirport, f.ArrivalAirport, f.DepartureTime
		}
		if !match.Matches(airportID) {
			continue
		}
		rows = append(rows, Row(f, counter, when, loc))
	}
	return rows
}

// Row renders one flight. counterpart and when are the airport and time
// shown for the chosen direction.
func Row(f entities.Flight, counterpart entities.Ref[entities.Airport], when *time.Time, loc *time.Location) dtos.BoardRow {
	category := Categorize(f.Status)
	status := string(f.Status)
	if status == "" {
		status = Dash
	}
	return dtos.BoardRow{
		FlightID:       f.ID,
		FlightNumber:   f.FlightNumber,
		Airline:        AirlineLabel(f.Airline),
		Airport:        AirportLabel(counterpart),
		Time:           TimeLabel(when, loc),
		Gate:           GateLabel(f.Gate),
		Status:         status,
		StatusCategory: category.Name,
		StatusColor:    category.Color,
		AircraftType:   orDash(f.AircraftType),
	}
}

// ============================================================================
// Labels
// ============================================================================

// NameCode renders "name (code)", falling back to whichever part is present.
func NameCode(name, code string) string {
	switch {
	case name != "" && code != "":
		return name + " (" + code + ")"
	case name != "":
		return name
	case code != "":
		return code
	}
	return NotAvailable
}

func AirportLabel(ref entities.Ref[entities.Airport]) string {
	if ref.Record == nil {
		return NotAvailable
	}
	return NameCode(ref.Record.Name, ref.Record.Code)
}

func AirlineLabel(ref entities.Ref[entities.Airline]) string {
	if ref.Record == nil {
		return NotAvailable
	}
	return NameCode(ref.Record.Name, ref.Record.Code)
}

func GateLabel(ref entities.Ref[entities.Gate]) string {
	if ref.Record == nil {
		return Dash
	}
	return orDash(ref.Record.Code)
}

// TimeLabel formats t as HH:mm in loc, or "-" when t is nil.
func TimeLabel(t *time.Time, loc *time.Location) string {
	if t == nil {
		return Dash
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("15:04")
}

func orDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}

// ============================================================================
// Status
// ============================================================================

type StatusCategory struct {
	Name  string
	Color string
}

var statusCategories = map[entities.FlightStatus]StatusCategory{
	entities.StatusScheduled: {Name: "SCHEDULED", Color: "blue"},
	entities.StatusBoarding:  {Name: "BOARDING", Color: "orange"},
	entities.StatusDeparted:  {Name: "DEPARTED", Color: "red"},
	entities.StatusArrived:   {Name: "ARRIVED", Color: "green"},
	entities.StatusDelayed:   {Name: "DELAYED", Color: "purple"},
	entities.StatusCancelled: {Name: "CANCELLED", Color: "gray"},
}

// UnknownStatus is the category of any status outside the closed set.
var UnknownStatus = StatusCategory{Name: "UNKNOWN", Color: "blue"}

func Categorize(s entities.FlightStatus) StatusCategory {
	if c, ok := statusCategories[s]; ok {
		return c
	}
	return UnknownStatus
}
