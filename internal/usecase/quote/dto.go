package quote

import (
	"strings"

	domainQuote "cargo-broker/internal/domain/quote"
	"cargo-broker/pkg/utils"
)

// Request DTOs
type SubmitRequest struct {
	ClientName    string  `json:"clientName" validate:"required,max=120"`
	ClientEmail   string  `json:"clientEmail" validate:"required,email,max=254"`
	ClientPhone   string  `json:"clientPhone" validate:"omitempty,max=32"`
	PartnerID     string  `json:"partnerId" validate:"required,max=64"`
	Origin        string  `json:"origin" validate:"required,max=200"`
	Destination   string  `json:"destination" validate:"required,max=200"`
	CargoType     string  `json:"cargoType" validate:"omitempty,max=100"`
	Weight        float64 `json:"weight" validate:"gt=0"`
	Dimensions    string  `json:"dimensions" validate:"omitempty,max=100"`
	PreferredDate string  `json:"preferredDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *SubmitRequest) sanitize() {
	r.ClientName = utils.SanitizeString(r.ClientName)
	r.ClientEmail = utils.SanitizeEmail(r.ClientEmail)
	r.ClientPhone = utils.SanitizePhone(r.ClientPhone)
	r.PartnerID = strings.TrimSpace(r.PartnerID)
	r.Origin = utils.SanitizeString(r.Origin)
	r.Destination = utils.SanitizeString(r.Destination)
	r.CargoType = utils.SanitizeString(r.CargoType)
	r.Dimensions = utils.SanitizeString(r.Dimensions)
	r.PreferredDate = strings.TrimSpace(r.PreferredDate)
	if r.CargoType == "" {
		r.CargoType = domainQuote.DefaultCargoType
	}
}

// AcceptDetails carries everything a partner attaches when pricing a request.
// Amounts are in the quoted currency. When BrokerFee is omitted it is derived
// from BrokerFeePercent, which itself defaults to the platform setting.
type AcceptDetails struct {
	TotalPrice         float64  `json:"totalPrice" validate:"gt=0"`
	Currency           string   `json:"currency" validate:"omitempty,iso4217"`
	BrokerFee          *float64 `json:"brokerFee" validate:"omitempty,gte=0"`
	BrokerFeePercent   *float64 `json:"brokerFeePercent" validate:"omitempty,gte=0,lte=100"`
	Notes              string   `json:"notes" validate:"omitempty,max=2000"`
	Terms              string   `json:"terms" validate:"omitempty,max=4000"`
	Logo               string   `json:"logo"`
	IncludePartnerLogo bool     `json:"includePartnerLogo"`
	HeaderImage        string   `json:"headerImage"`
	HeaderMessage      string   `json:"headerMessage" validate:"omitempty,max=280"`
	PaymentMethod      string   `json:"paymentMethod" validate:"omitempty,max=64"`
	DetailsOrder       []string `json:"detailsOrder" validate:"omitempty,unique,dive,detail_key"`
}

func (d *AcceptDetails) sanitize() {
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	d.Notes = utils.SanitizeText(d.Notes)
	d.Terms = utils.SanitizeText(d.Terms)
	d.HeaderMessage = utils.SanitizeString(d.HeaderMessage)
	d.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	d.Logo = strings.TrimSpace(d.Logo)
	d.HeaderImage = strings.TrimSpace(d.HeaderImage)
}

type FeedbackRequest struct {
	Author string  `json:"author" validate:"omitempty,max=120"`
	Text   string  `json:"text" validate:"required,max=1000"`
	Rating float64 `json:"rating" validate:"gte=1,lte=5"`
}

func (r *FeedbackRequest) sanitize() {
	r.Author = utils.SanitizeString(r.Author)
	r.Text = utils.SanitizeText(r.Text)
}

type BulkStatusRequest struct {
	IDs    []string           `json:"ids" validate:"required,min=1,max=500"`
	Status domainQuote.Status `json:"status" validate:"required,oneof=PENDING ACCEPTED DENIED DELIVERED CANCELLED"`
}

type ListFilterRequest struct {
	Status    string `form:"status" json:"status" validate:"omitempty,oneof=PENDING ACCEPTED DENIED DELIVERED CANCELLED"`
	PartnerID string `form:"partner_id" json:"partnerId"`
	ClientID  string `form:"client_id" json:"clientId"`
	Search    string `form:"search" json:"search" validate:"omitempty,max=100"`
}

func (f *ListFilterRequest) toFilter() *domainQuote.Filter {
	filter := &domainQuote.Filter{
		PartnerID: strings.TrimSpace(f.PartnerID),
		ClientID:  strings.TrimSpace(f.ClientID),
		Search:    strings.TrimSpace(f.Search),
	}
	if f.Status != "" {
		status := domainQuote.Status(f.Status)
		filter.Status = &status
	}
	return filter
}

// Response DTOs
type SkippedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Updated []string      `json:"updated"`
	Skipped []SkippedItem `json:"skipped"`
	Unknown []string      `json:"unknown"`
}

// ActionSet lists the lifecycle actions available for a request. Terminal is
// set once only an admin cancel remains.
type ActionSet struct {
	RequestID string               `json:"requestId"`
	Status    domainQuote.Status   `json:"status"`
	Actions   []domainQuote.Action `json:"actions"`
	Terminal  bool                 `json:"terminal"`
}

type PartnerQueue struct {
	PartnerID string                 `json:"partnerId"`
	Pending   []*domainQuote.Request `json:"pending"`
	Processed []*domainQuote.Request `json:"processed"`
}

type FeedbackResult struct {
	Request *domainQuote.Request `json:"request"`
	Applied bool                 `json:"applied"`
}
