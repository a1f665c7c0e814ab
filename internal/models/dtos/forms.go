package dtos

// FlightForm holds values as the admin form submits them: relations as bare
// ids and times as date-picker strings.
type FlightForm struct {
	FlightNumber       string `json:"flightNumber"`
	AirlineID          *int64 `json:"airlineId"`
	DepartureAirportID *int64 `json:"departureAirportId"`
	ArrivalAirportID   *int64 `json:"arrivalAirportId"`
	GateID             *int64 `json:"gateId"`
	DepartureTime      string `json:"departureTime"`
	ArrivalTime        string `json:"arrivalTime"`
	AircraftType       string `json:"aircraftType"`
	Status             string `json:"status"`
}

type AirlineForm struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country"`
}

type GateForm struct {
	Code      string `json:"code"`
	Terminal  string `json:"terminal"`
	AirportID *int64 `json:"airportId"`
}
