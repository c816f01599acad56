package partner

// Seed returns the initial directory used when the store holds no partners.
func Seed() []*Partner {
	return []*Partner{
		{
			ID:             "p1",
			Name:           "Blue Horizon Logistics",
			Specialization: "Ocean Freight & Global Containers",
			Rating:         4.8,
			Availability:   AvailabilityLimited,
			FleetSize:      120,
			Location:       "Rotterdam, NL",
			Logo:           "https://picsum.photos/seed/p1/100/100",
			Email:          "contact@bluehorizon.logistics",
			Phone:          "+31 10 456 7890",
			ServiceAreas:   []string{"Europe", "North America", "East Asia"},
			Testimonials: []Testimonial{
				{Author: "Global Tech Corp", Text: "Unbeatable reliability for our overseas shipments.", Rating: 5},
				{Author: "Euro Retailers", Text: "Great tracking system, though customs took a bit longer.", Rating: 4},
			},
			AvgDeliveryTime:          "18.5 days",
			ClientSatisfaction:       96,
			OnTimeDeliveryRate:       94,
			HistoricalTotalShipments: 14200,
		},
		{
			ID:             "p2",
			Name:           "RapidWings Air Cargo",
			Specialization: "Express Air Mail & Priority Shipping",
			Rating:         4.9,
			Availability:   AvailabilityAvailable,
			FleetSize:      45,
			Location:       "Chicago, US",
			Logo:           "https://picsum.photos/seed/p2/100/100",
			Email:          "ops@rapidwings.com",
			Phone:          "+1 312 555 0199",
			ServiceAreas:   []string{"Global Express", "Domestic US"},
			Testimonials: []Testimonial{
				{Author: "Swift Health", Text: "Saved our medical supplies delivery deadline!", Rating: 5},
				{Author: "Precision Parts", Text: "Fastest air cargo we have used in a decade.", Rating: 5},
			},
			AvgDeliveryTime:          "2.1 days",
			ClientSatisfaction:       99,
			OnTimeDeliveryRate:       98,
			HistoricalTotalShipments: 8900,
		},
		{
			ID:             "p3",
			Name:           "RoadRunner Trucking",
			Specialization: "Domestic Haulage & LTL",
			Rating:         4.5,
			Availability:   AvailabilityAvailable,
			FleetSize:      250,
			Location:       "Munich, DE",
			Logo:           "https://picsum.photos/seed/p3/100/100",
			Email:          "info@roadrunner-trucks.de",
			Phone:          "+49 89 1234 5678",
			ServiceAreas:   []string{"DACH Region", "Benelux", "Northern Italy"},
			Testimonials: []Testimonial{
				{Author: "Bavarian Motors", Text: "Solid regional partner for heavy machinery.", Rating: 4},
				{Author: "Fresh Produce Ltd", Text: "Dependable daily routes.", Rating: 4.5},
			},
			AvgDeliveryTime:          "3.4 days",
			ClientSatisfaction:       92,
			OnTimeDeliveryRate:       89,
			HistoricalTotalShipments: 32500,
		},
	}
}
