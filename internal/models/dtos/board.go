package dtos

// BoardRow is one display line of a departures or arrivals board.
type BoardRow struct {
	FlightID       int64  `json:"flightId"`
	FlightNumber   string `json:"flightNumber"`
	Airline        string `json:"airline"`
	Airport        string `json:"airport"`
	Time           string `json:"time"`
	Gate           string `json:"gate"`
	Status         string `json:"status"`
	StatusCategory string `json:"statusCategory"`
	StatusColor    string `json:"statusColor"`
	AircraftType   string `json:"aircraftType"`
}

type Board struct {
	AirportID   *int64     `json:"airportId"`
	Direction   string     `json:"direction"`
	ColumnTitle string     `json:"columnTitle"`
	Source      string     `json:"source"`
	Generation  uint64     `json:"generation"`
	Rows        []BoardRow `json:"rows"`
}

// AdminFlightRow is a line of the admin flight table.
type AdminFlightRow struct {
	FlightID     int64  `json:"flightId"`
	FlightNumber string `json:"flightNumber"`
	Airline      string `json:"airline"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Status       string `json:"status"`
}

type GateRow struct {
	GateID   int64  `json:"gateId"`
	Code     string `json:"code"`
	Terminal string `json:"terminal"`
	Airport  string `json:"airport"`
}

// Option is a select-box entry.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

type AirportOptions struct {
	Selected *int64   `json:"selected"`
	Options  []Option `json:"options"`
}

// AdminFlightsView is everything the admin flight page renders.
type AdminFlightsView struct {
	Flights  []AdminFlightRow `json:"flights"`
	Airlines []Option         `json:"airlines"`
	Airports []Option         `json:"airports"`
	Statuses []string         `json:"statuses"`
}
