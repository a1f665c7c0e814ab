// Package forms converts admin form values into service write payloads.
package forms

import (
	"sort"
	"strings"
	"time"

	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/models/entities"
)

// ValidationErrors maps a form field to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

const (
	msgRequired     = "is required"
	msgInvalidTime  = "is not a valid date and time"
	msgUnknownState = "is not a known flight status"
)

// pickerLayouts are the date-picker formats accepted besides RFC 3339.
var pickerLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// isoMillis matches what browsers emit for Date.toISOString().
const isoMillis = "2006-01-02T15:04:05.000Z"

// Adapter reads picker times in Location, the zone the operator works in.
type Adapter struct {
	Location *time.Location
}

func NewAdapter(loc *time.Location) *Adapter {
	if loc == nil {
		loc = time.UTC
	}
	return &Adapter{Location: loc}
}

// FlightPayload wraps relation ids as {"id": n}, converts times to UTC
// ISO-8601 and defaults an empty status to SCHEDULED.
func (a *Adapter) FlightPayload(f dtos.FlightForm) (dtos.FlightPayload, error) {
	errs := ValidationErrors{}

	p := dtos.FlightPayload{
		FlightNumber: strings.TrimSpace(f.FlightNumber),
		AircraftType: strings.TrimSpace(f.AircraftType),
	}
	if p.FlightNumber == "" {
		errs.add("flightNumber", msgRequired)
	}

	p.Airline = requireRef(errs, "airlineId", f.AirlineID)
	p.DepartureAirport = requireRef(errs, "departureAirportId", f.DepartureAirportID)
	p.ArrivalAirport = requireRef(errs, "arrivalAirportId", f.ArrivalAirportID)
	if f.GateID != nil {
		p.Gate = &dtos.IDRef{ID: *f.GateID}
	}

	p.DepartureTime = a.requireTime(errs, "departureTime", f.DepartureTime)
	p.ArrivalTime = a.requireTime(errs, "arrivalTime", f.ArrivalTime)

	if strings.TrimSpace(f.Status) == "" {
		p.Status = string(entities.StatusScheduled)
	} else if st, ok := entities.ParseFlightStatus(f.Status); ok {
		p.Status = string(st)
	} else {
		errs.add("status", msgUnknownState)
	}

	return p, errs.orNil()
}

func (a *Adapter) AirlinePayload(f dtos.AirlineForm) (dtos.AirlinePayload, error) {
	errs := ValidationErrors{}

	p := dtos.AirlinePayload{
		Name:    strings.TrimSpace(f.Name),
		Code:    strings.ToUpper(strings.TrimSpace(f.Code)),
		Country: strings.TrimSpace(f.Country),
	}
	if p.Name == "" {
		errs.add("name", msgRequired)
	}
	switch {
	case p.Code == "":
		errs.add("code", msgRequired)
	case len(p.Code) > 2:
		errs.add("code", "must be at most 2 characters")
	}
	return p, errs.orNil()
}

func (a *Adapter) GatePayload(f dtos.GateForm) (dtos.GatePayload, error) {
	errs := ValidationErrors{}

	p := dtos.GatePayload{
		Code:     strings.TrimSpace(f.Code),
		Terminal: strings.TrimSpace(f.Terminal),
	}
	if p.Code == "" {
		errs.add("code", msgRequired)
	}
	p.Airport = requireRef(errs, "airportId", f.AirportID)
	return p, errs.orNil()
}

// ISOTime converts a picker value to UTC ISO-8601 with milliseconds.
// Values carrying an offset keep it; others are read in the adapter's zone.
func (a *Adapter) ISOTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(isoMillis), true
	}
	for _, layout := range pickerLayouts {
		if t, err := time.ParseInLocation(layout, s, a.Location); err == nil {
			return t.UTC().Format(isoMillis), true
		}
	}
	return "", false
}

func (a *Adapter) requireTime(errs ValidationErrors, field, value string) string {
	if strings.TrimSpace(value) == "" {
		errs.add(field, msgRequired)
		return ""
	}
	iso, ok := a.ISOTime(value)
	if !ok {
		errs.add(field, msgInvalidTime)
	}
	return iso
}

func requireRef(errs ValidationErrors, field string, id *int64) dtos.IDRef {
	if id == nil {
		errs.add(field, msgRequired)
		return dtos.IDRef{}
	}
	return dtos.IDRef{ID: *id}
}
