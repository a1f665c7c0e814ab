package entities

import (
	"strings"
	"time"
)

// Airport is reference data; ids are assigned by the backing service.
type Airport struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Airline struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
}

type Gate struct {
	ID       int64        `json:"id"`
	Code     string       `json:"code"`
	Terminal string       `json:"terminal,omitempty"`
	Airport  Ref[Airport] `json:"airport"`
}

// Flight is transactional data. Every relation may be missing or partial;
// times are nil when absent or unparseable.
type Flight struct {
	ID               int64        `json:"id"`
	FlightNumber     string       `json:"flightNumber"`
	Airline          Ref[Airline] `json:"airline"`
	DepartureAirport Ref[Airport] `json:"departureAirport"`
	ArrivalAirport   Ref[Airport] `json:"arrivalAirport"`
	DepartureTime    *time.Time   `json:"departureTime"`
	ArrivalTime      *time.Time   `json:"arrivalTime"`
	Gate             Ref[Gate]    `json:"gate"`
	Status           FlightStatus `json:"status"`
	AircraftType     string       `json:"aircraftType,omitempty"`
}

type FlightStatus string

const (
	StatusScheduled FlightStatus = "SCHEDULED"
	StatusBoarding  FlightStatus = "BOARDING"
	StatusDeparted  FlightStatus = "DEPARTED"
	StatusArrived   FlightStatus = "ARRIVED"
	StatusDelayed   FlightStatus = "DELAYED"
	StatusCancelled FlightStatus = "CANCELLED"
)

// FlightStatuses lists the closed status set in display order.
var FlightStatuses = []FlightStatus{
	StatusScheduled,
	StatusBoarding,
	StatusDeparted,
	StatusArrived,
	StatusDelayed,
	StatusCancelled,
}

func (s FlightStatus) Known() bool {
	for _, st := range FlightStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseFlightStatus accepts any casing and surrounding whitespace.
func ParseFlightStatus(s string) (FlightStatus, bool) {
	st := FlightStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Known()
}

// EntityKind names the mutable collections.
type EntityKind string

const (
	KindFlight  EntityKind = "flight"
	KindAirline EntityKind = "airline"
	KindGate    EntityKind = "gate"
)

func (k EntityKind) Valid() bool {
	switch k {
	case KindFlight, KindAirline, KindGate:
		return true
	}
	return false
}
