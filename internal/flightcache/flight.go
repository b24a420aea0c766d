package flightcache

// Flight is one candidate flight offer as handed over by the flight
// scrapers. PricePerPerson may be absent; TotalPrice is then assumed to
// cover the usual party of four.
type Flight struct {
	OriginAirport      string   `json:"origin_airport"`
	DestinationAirport string   `json:"destination_airport"`
	DepartureDate      string   `json:"departure_date"`
	DepartureTime      string   `json:"departure_time,omitempty"`
	Airline            string   `json:"airline,omitempty"`
	PricePerPerson     *float64 `json:"price_per_person,omitempty"`
	TotalPrice         *float64 `json:"total_price,omitempty"`
}
