package partner

import (
	domainPartner "cargo-broker/internal/domain/partner"
	"cargo-broker/pkg/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	utils.RegisterValidation("availability", func(fl validator.FieldLevel) bool {
		return domainPartner.Availability(fl.Field().String()).Valid()
	})
}

type AvailabilityRequest struct {
	Availability domainPartner.Availability `json:"availability" validate:"required,availability"`
}

type TestimonialRequest struct {
	Author string  `json:"author" validate:"required,max=120"`
	Text   string  `json:"text" validate:"required,max=1000"`
	Rating float64 `json:"rating" validate:"gte=1,lte=5"`
}

func (r *TestimonialRequest) sanitize() {
	r.Author = utils.SanitizeString(r.Author)
	r.Text = utils.SanitizeText(r.Text)
}

type BlockState struct {
	ClientID  string   `json:"clientId"`
	PartnerID string   `json:"partnerId"`
	Blocked   bool     `json:"blocked"`
	All       []string `json:"blockedPartnerIds"`
}

// PartnerView decorates a partner with the viewing client's block state.
type PartnerView struct {
	*domainPartner.Partner
	Blocked bool `json:"blocked"`
}
