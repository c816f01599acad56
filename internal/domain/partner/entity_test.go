package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddFeedbackWeightedRating(t *testing.T) {
	p := &Partner{ID: "p9", Rating: 4.0, HistoricalTotalShipments: 9}

	p.AddFeedback(Testimonial{Author: "Acme", Text: "Good", Rating: 5})

	assert.Equal(t, 4.1, p.Rating)
	assert.Equal(t, 10, p.HistoricalTotalShipments)
	assert.Len(t, p.Testimonials, 1)
}

func TestAddFeedbackPrependsNewest(t *testing.T) {
	p := &Partner{Rating: 4.5, HistoricalTotalShipments: 2, Testimonials: []Testimonial{{Author: "old", Rating: 4}}}

	p.AddFeedback(Testimonial{Author: "new", Rating: 5})

	assert.Equal(t, "new", p.Testimonials[0].Author)
	assert.Equal(t, "old", p.Testimonials[1].Author)
}

// Rounding on each update compounds: ten 5-star reviews on a 4.0/1 partner
// do not land on the exact unrounded mean.
func TestAddFeedbackRoundsEveryUpdate(t *testing.T) {
	p := &Partner{Rating: 4.0, HistoricalTotalShipments: 1}
	for i := 0; i < 10; i++ {
		p.AddFeedback(Testimonial{Rating: 5})
	}

	exact := (4.0 + 10*5) / 11
	assert.Equal(t, 11, p.HistoricalTotalShipments)
	assert.Equal(t, 4.8, p.Rating)
	assert.Equal(t, 4.9, Round1(exact))
}

func TestSeedPartners(t *testing.T) {
	seed := Seed()
	assert.Len(t, seed, 3)
	for _, p := range seed {
		assert.True(t, p.Availability.Valid())
		assert.NotEmpty(t, p.Testimonials)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Seed()[0]
	c := p.Clone()
	c.Testimonials[0].Author = "changed"
	c.ServiceAreas[0] = "changed"

	assert.NotEqual(t, "changed", p.Testimonials[0].Author)
	assert.NotEqual(t, "changed", p.ServiceAreas[0])
}
