package types

// Anchor is a caller-specified activity with a fixed date (and usually time)
// that must appear in the itinerary, e.g. a pre-booked ticket. Anchors are
// read-only input to the pipeline and never themselves part of the Itinerary.
type Anchor struct {
	Name            string `json:"name"`
	City            string `json:"city,omitempty"`
	Date            string `json:"date"` // "2006-01-02"
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type TransferType string

const (
	TransferAirportArrival   TransferType = "airport_arrival"
	TransferAirportDeparture TransferType = "airport_departure"
	TransferInterCity        TransferType = "inter_city"
	TransferSameCity         TransferType = "same_city"
)

// Transfer is a caller-supplied transit leg the schedule has to account for.
type Transfer struct {
	Type            TransferType `json:"type"`
	Date            string       `json:"date"`
	FromCity        string       `json:"from_city,omitempty"`
	ToCity          string       `json:"to_city,omitempty"`
	Mode            string       `json:"mode,omitempty"`
	DurationMinutes int          `json:"duration_minutes,omitempty"`
}

type HotelInfo struct {
	Name        string      `json:"name"`
	City        string      `json:"city,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// TripContext is everything the caller knows about the trip before
// generation: the frame the pipeline normalizes and validates against.
type TripContext struct {
	Destination         string      `json:"destination"`
	Country             string      `json:"country,omitempty"`
	Cities              []string    `json:"cities,omitempty"`
	StartDate           string      `json:"start_date"` // "2006-01-02"
	NumDays             int         `json:"num_days"`
	Anchors             []Anchor    `json:"anchors,omitempty"`
	Transfers           []Transfer  `json:"transfers,omitempty"`
	Hotels              []HotelInfo `json:"hotels,omitempty"`
	ArrivalFlightTime   string      `json:"arrival_flight_time,omitempty"`   // "15:04", day 1
	DepartureFlightTime string      `json:"departure_flight_time,omitempty"` // "15:04", last day
}

// GenerationResult is the output of the generation collaborator: either an
// already-structured itinerary (curated data source) or raw model text that
// still needs repair.
type GenerationResult struct {
	Itinerary *Itinerary `json:"itinerary,omitempty"`
	RawText   string     `json:"raw_text,omitempty"`
}

// IsStructured reports whether the result can skip the text-repair stage.
func (g GenerationResult) IsStructured() bool { return g.Itinerary != nil }
