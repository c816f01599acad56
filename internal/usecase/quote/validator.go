package quote

import (
	"context"
	"errors"

	domainQuote "cargo-broker/internal/domain/quote"
	"cargo-broker/internal/domain/settings"
	"cargo-broker/internal/pricing"
	appErrors "cargo-broker/pkg/errors"
	"cargo-broker/pkg/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	utils.RegisterValidation("detail_key", func(fl validator.FieldLevel) bool {
		return domainQuote.IsDetailKey(fl.Field().String())
	})
}

func validationError(err error) error {
	return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
}

// ResolveBreakdown turns the partner's submitted price inputs into the
// persisted split. An explicit fee wins; otherwise the fee comes from the
// percent, falling back to defaultPercent.
func ResolveBreakdown(details *AcceptDetails, defaultPercent float64) (pricing.Breakdown, error) {
	total := pricing.FromFloat(details.TotalPrice)

	var b pricing.Breakdown
	switch {
	case details.BrokerFee != nil && details.BrokerFeePercent != nil:
		fee := pricing.FromFloat(*details.BrokerFee)
		b = pricing.Breakdown{Total: total, Fee: fee, Base: total - fee, Percent: *details.BrokerFeePercent}
	case details.BrokerFee != nil:
		b = pricing.FromFee(total, pricing.FromFloat(*details.BrokerFee))
	case details.BrokerFeePercent != nil:
		b = pricing.Compute(total, *details.BrokerFeePercent)
	default:
		b = pricing.Compute(total, defaultPercent)
	}

	if err := b.Validate(); err != nil {
		switch {
		case errors.Is(err, pricing.ErrNonPositiveTotal):
			return b, appErrors.NewValidationError("totalPrice", "must be greater than 0")
		case errors.Is(err, pricing.ErrFeeOutOfRange):
			return b, appErrors.NewValidationError("brokerFee", "must be between 0 and the total price")
		default:
			return b, appErrors.NewValidationError("brokerFeePercent", "must be between 0 and 100")
		}
	}
	return b, nil
}

// ValidatePaymentMethod checks methodID against the admin-managed list.
func ValidatePaymentMethod(ctx context.Context, repo settings.Repository, methodID string) error {
	if methodID == "" {
		return nil
	}
	methods, err := repo.PaymentMethods(ctx)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if m.ID == methodID {
			return nil
		}
	}
	return appErrors.NewAppError(
		appErrors.CodeValidation,
		"Invalid input",
		errors.Join(appErrors.ValidationErrors{"paymentMethod": "must be a configured payment method"}, domainQuote.ErrUnknownPaymentMethod),
	)
}
