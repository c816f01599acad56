package partner

import "math"

// Availability is the partner's self-reported capacity
type Availability string

const (
	AvailabilityAvailable   Availability = "AVAILABLE"
	AvailabilityLimited     Availability = "LIMITED"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityLimited, AvailabilityUnavailable:
		return true
	}
	return false
}

type Testimonial struct {
	Author string  `json:"author"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// Partner is a carrier able to accept or deny quote requests.
type Partner struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Specialization string        `json:"specialization"`
	Rating         float64       `json:"rating"`
	Availability   Availability  `json:"availability"`
	FleetSize      int           `json:"fleetSize"`
	Location       string        `json:"location"`
	Logo           string        `json:"logo"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	ServiceAreas   []string      `json:"serviceAreas"`
	Testimonials   []Testimonial `json:"testimonials"`

	// Performance metrics
	AvgDeliveryTime          string `json:"avgDeliveryTime"`
	ClientSatisfaction       int    `json:"clientSatisfaction"`
	OnTimeDeliveryRate       int    `json:"onTimeDeliveryRate"`
	HistoricalTotalShipments int    `json:"historicalTotalShipments"`
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AddFeedback folds a testimonial into the running rating. The rating is
// rounded on every update, so drift across many updates is expected.
func (p *Partner) AddFeedback(t Testimonial) {
	n := float64(p.HistoricalTotalShipments)
	p.Rating = Round1((p.Rating*n + t.Rating) / (n + 1))
	p.HistoricalTotalShipments++
	p.Testimonials = append([]Testimonial{t}, p.Testimonials...)
}

func (p *Partner) Clone() *Partner {
	if p == nil {
		return nil
	}
	c := *p
	c.ServiceAreas = append([]string(nil), p.ServiceAreas...)
	c.Testimonials = append([]Testimonial(nil), p.Testimonials...)
	return &c
}
