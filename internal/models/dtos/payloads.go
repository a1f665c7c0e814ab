package dtos

// IDRef is the relation-reference wire shape, {"id": n}.
type IDRef struct {
	ID int64 `json:"id"`
}

// FlightPayload is the body of POST /flights and PUT /flights/{id}.
type FlightPayload struct {
	FlightNumber     string `json:"flightNumber"`
	Airline          IDRef  `json:"airline"`
	DepartureAirport IDRef  `json:"departureAirport"`
	ArrivalAirport   IDRef  `json:"arrivalAirport"`
	Gate             *IDRef `json:"gate"`
	DepartureTime    string `json:"departureTime"`
	ArrivalTime      string `json:"arrivalTime"`
	Status           string `json:"status"`
	AircraftType     string `json:"aircraftType,omitempty"`
}

type AirlinePayload struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
}

type GatePayload struct {
	Code     string `json:"code"`
	Terminal string `json:"terminal,omitempty"`
	Airport  IDRef  `json:"airport"`
}
