package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cargo-broker/internal/domain/partner"
	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/pricing"
)

var (
	ErrNotFinalized  = errors.New("only accepted or delivered requests have documents")
	ErrMissingTerms  = errors.New("request has no persisted price breakdown")
	ErrPartnerAbsent = errors.New("document requires the request's partner")
)

// View selects who the document is addressed to.
type View string

const (
	ViewClient  View = "client"
	ViewPartner View = "partner"
)

func (v View) Valid() bool {
	return v == ViewClient || v == ViewPartner
}

const (
	clientTerms  = "Quote valid for 7 days. Final price subject to verification of cargo weight and volume at origin."
	partnerTerms = "Settlement will be processed upon proof of delivery. Commission is non-refundable."

	// DefaultFeePercent labels the fee line of requests priced without a percent.
	DefaultFeePercent = 10.0

	// PlatformBrand on QuotedLogo adds the network footer.
	PlatformBrand  = "Cargo Brokers"
	platformFooter = "CARGO BROKERS LOGISTICS NETWORK | SECURE FINANCIAL CLEARING"
)

type Party struct {
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	Location string `json:"location,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type DetailLine struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Invoice is a finished client invoice or partner settlement. Every amount is
// copied from the request as persisted at acceptance.
type Invoice struct {
	Filename      string            `json:"filename"`
	View          View              `json:"view"`
	Title         string            `json:"title"`
	Subtitle      string            `json:"subtitle"`
	Reference     string            `json:"reference"`
	IssuedAt      time.Time         `json:"issuedAt"`
	TrackingID    string            `json:"trackingId"`
	Carrier       Party             `json:"carrier"`
	Client        Party             `json:"client"`
	Details       []DetailLine      `json:"details"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
	Currency      string            `json:"currency"`
	TotalLabel    string            `json:"totalLabel"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	HeaderMessage string            `json:"headerMessage,omitempty"`
	ShowLogo      bool              `json:"showLogo"`
	Notes         string            `json:"notes,omitempty"`
	Terms         string            `json:"terms"`
	Footer        string            `json:"footer,omitempty"`
}

// Build assembles the document for req. Only ACCEPTED and DELIVERED requests
// qualify; nothing is recomputed.
func Build(req *quote.Request, p *partner.Partner, view View, now time.Time) (*Invoice, error) {
	if req.Status != quote.StatusAccepted && req.Status != quote.StatusDelivered {
		return nil, fmt.Errorf("%w: status %s", ErrNotFinalized, req.Status)
	}
	breakdown, ok := req.Breakdown()
	if !ok {
		return nil, ErrMissingTerms
	}
	if p == nil || p.ID != req.PartnerID {
		return nil, ErrPartnerAbsent
	}
	if req.BrokerFeePercent == nil {
		breakdown.Percent = DefaultFeePercent
	}
	if !view.Valid() {
		view = ViewClient
	}

	inv := &Invoice{
		View:          view,
		Reference:     strings.ToUpper(req.ID),
		IssuedAt:      now,
		TrackingID:    req.TrackingID,
		Carrier:       Party{Name: p.Name, Subtitle: p.Specialization, Location: p.Location, Email: p.Email, Phone: p.Phone},
		Client:        Party{Name: req.ClientName, Email: req.ClientEmail, Phone: req.ClientPhone},
		Details:       detailLines(req),
		Breakdown:     breakdown,
		Currency:      req.QuotedCurrency,
		PaymentMethod: req.PaymentMethod,
		HeaderMessage: req.HeaderMessage,
		Notes:         req.QuotedNotes,
	}

	baseTerms := clientTerms
	if view == ViewPartner {
		inv.Filename = "PartnerSettlement_" + req.ID
		inv.Title = "SETTLEMENT STATEMENT"
		inv.Subtitle = "COMMISSION BREAKDOWN"
		inv.TotalLabel = "TOTAL SETTLEMENT VALUE"
		baseTerms = partnerTerms
	} else {
		inv.Filename = "CargoInvoice_" + req.ID
		inv.Title = strings.ToUpper(p.Name)
		inv.Subtitle = strings.ToUpper(p.Specialization)
		inv.TotalLabel = "TOTAL INVOICE AMOUNT"
		inv.ShowLogo = req.IncludePartnerLogo
	}

	inv.Terms = baseTerms
	if req.QuotedTerms != "" {
		inv.Terms += "\n" + req.QuotedTerms
	}
	if req.QuotedLogo == PlatformBrand {
		inv.Footer = platformFooter
	}
	return inv, nil
}

func detailLines(req *quote.Request) []DetailLine {
	order := req.QuotedDetailsOrder
	if len(order) == 0 {
		order = quote.DefaultDetailsOrder
	}

	lines := make([]DetailLine, 0, len(order))
	for _, key := range order {
		label, value, ok := detail(req, key)
		if !ok {
			continue
		}
		lines = append(lines, DetailLine{Key: key, Label: label, Value: value})
	}
	return lines
}

func detail(req *quote.Request, key string) (string, string, bool) {
	switch key {
	case quote.DetailOrigin:
		return "Origin", req.Origin, true
	case quote.DetailDestination:
		return "Destination", req.Destination, true
	case quote.DetailCargoType:
		return "Cargo Type", req.CargoType, true
	case quote.DetailWeight:
		unit := req.WeightUnit
		if unit == "" {
			unit = quote.UnitKilogram
		}
		return "Weight", fmt.Sprintf("%g %s", req.Weight, unit), true
	case quote.DetailDimensions:
		return "Dimensions", orNA(req.Dimensions), true
	case quote.DetailPreferredDate:
		return "Preferred Date", orNA(req.PreferredDate), true
	}
	return "", "", false
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
