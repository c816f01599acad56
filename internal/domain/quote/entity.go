package quote

import (
	"time"

	"cargo-broker/internal/pricing"
)

// Status represents the lifecycle state of a quote request
type Status string

const (
	StatusPending   Status = "PENDING"   // Submitted by a client, waiting on the partner
	StatusAccepted  Status = "ACCEPTED"  // Priced by the partner, tracking active
	StatusDenied    Status = "DENIED"    // Declined by the partner
	StatusDelivered Status = "DELIVERED" // Confirmed delivered by the client
	StatusCancelled Status = "CANCELLED" // Forced closed by an admin
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDenied, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type WeightUnit string

const (
	UnitKilogram WeightUnit = "kg"
	UnitTonne    WeightUnit = "t"
)

// TonneThreshold is the submitted kg weight at which storage switches to tonnes.
const TonneThreshold = 1000.0

// Cargo categories offered on the submission form
var CargoTypes = []string{
	"General Goods",
	"Perishables (Refrigerated)",
	"Hazardous Materials",
	"Heavy Machinery",
	"Electronics",
	"Textiles",
}

const DefaultCargoType = "General Goods"

// Detail keys usable in QuotedDetailsOrder.
const (
	DetailOrigin        = "origin"
	DetailDestination   = "destination"
	DetailCargoType     = "cargoType"
	DetailWeight        = "weight"
	DetailDimensions    = "dimensions"
	DetailPreferredDate = "preferredDate"
)

var DefaultDetailsOrder = []string{
	DetailOrigin,
	DetailDestination,
	DetailCargoType,
	DetailWeight,
	DetailDimensions,
	DetailPreferredDate,
}

func IsDetailKey(key string) bool {
	for _, k := range DefaultDetailsOrder {
		if k == key {
			return true
		}
	}
	return false
}

// Request is a client's cargo-shipment inquiry routed to one partner.
type Request struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`
	PartnerID   string `json:"partnerId"`

	// Shipment facts, fixed at submission
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	CargoType     string     `json:"cargoType"`
	Weight        float64    `json:"weight"`
	WeightUnit    WeightUnit `json:"weightUnit"`
	Dimensions    string     `json:"dimensions,omitempty"`
	PreferredDate string     `json:"preferredDate,omitempty"`

	Status  Status `json:"status"`
	AINotes string `json:"aiNotes,omitempty"`

	// Commercial terms, set on acceptance
	QuotedBasePrice    *pricing.Money `json:"quotedBasePrice,omitempty"`
	BrokerFee          *pricing.Money `json:"brokerFee,omitempty"`
	BrokerFeePercent   *float64       `json:"brokerFeePercent,omitempty"`
	QuotedPrice        *pricing.Money `json:"quotedPrice,omitempty"`
	QuotedCurrency     string         `json:"quotedCurrency,omitempty"`
	QuotedNotes        string         `json:"quotedNotes,omitempty"`
	QuotedTerms        string         `json:"quotedTerms,omitempty"`
	QuotedLogo         string         `json:"quotedLogo,omitempty"`
	IncludePartnerLogo bool           `json:"includePartnerLogo,omitempty"`
	HeaderImage        string         `json:"headerImage,omitempty"`
	HeaderMessage      string         `json:"headerMessage,omitempty"`
	PaymentMethod      string         `json:"paymentMethod,omitempty"`
	QuotedDetailsOrder []string       `json:"quotedDetailsOrder,omitempty"`

	CreatedAt        time.Time  `json:"createdAt"`
	AcceptedAt       *time.Time `json:"acceptedAt,omitempty"`
	TrackingID       string     `json:"trackingId,omitempty"`
	FeedbackProvided bool       `json:"feedbackProvided,omitempty"`
}

// NormalizeWeight converts a submitted kilogram weight into its stored form.
func NormalizeWeight(kg float64) (float64, WeightUnit) {
	if kg >= TonneThreshold {
		return kg / 1000, UnitTonne
	}
	return kg, UnitKilogram
}

// WeightKg returns the weight in kilograms regardless of the stored unit.
func (r *Request) WeightKg() float64 {
	if r.WeightUnit == UnitTonne {
		return r.Weight * 1000
	}
	return r.Weight
}

// HasActiveTracking reports whether the request carries acceptance data.
func (r *Request) HasActiveTracking() bool {
	return r.AcceptedAt != nil && r.TrackingID != ""
}

// Breakdown returns the persisted commercial split, if the request was priced.
func (r *Request) Breakdown() (pricing.Breakdown, bool) {
	if r.QuotedPrice == nil || r.BrokerFee == nil || r.QuotedBasePrice == nil {
		return pricing.Breakdown{}, false
	}
	b := pricing.Breakdown{
		Total: *r.QuotedPrice,
		Fee:   *r.BrokerFee,
		Base:  *r.QuotedBasePrice,
	}
	if r.BrokerFeePercent != nil {
		b.Percent = *r.BrokerFeePercent
	}
	return b, true
}

// Clone returns a deep copy safe to hand out of a repository.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	if r.QuotedBasePrice != nil {
		v := *r.QuotedBasePrice
		c.QuotedBasePrice = &v
	}
	if r.BrokerFee != nil {
		v := *r.BrokerFee
		c.BrokerFee = &v
	}
	if r.BrokerFeePercent != nil {
		v := *r.BrokerFeePercent
		c.BrokerFeePercent = &v
	}
	if r.QuotedPrice != nil {
		v := *r.QuotedPrice
		c.QuotedPrice = &v
	}
	if r.AcceptedAt != nil {
		v := *r.AcceptedAt
		c.AcceptedAt = &v
	}
	if r.QuotedDetailsOrder != nil {
		c.QuotedDetailsOrder = append([]string(nil), r.QuotedDetailsOrder...)
	}
	return &c
}

// Statistics aggregates the request collection for the admin dashboard
type Statistics struct {
	TotalRequests   int            `json:"total_requests"`
	ByStatus        map[Status]int `json:"by_status"`
	PlatformRevenue pricing.Money  `json:"platform_revenue"`
	TotalWeightKg   float64        `json:"total_weight_kg"`
	ActiveTracking  int            `json:"active_tracking"`
}
