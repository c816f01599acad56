package settings

import (
	"context"

	domainSettings "cargo-broker/internal/domain/settings"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/pricing"
	appErrors "cargo-broker/pkg/errors"
	"cargo-broker/pkg/utils"

	"go.uber.org/zap"
)

type PaymentMethodRequest struct {
	Name string `json:"name" validate:"required,max=60"`
	Icon string `json:"icon" validate:"omitempty,max=16"`
}

type DefaultFeeRequest struct {
	Percent float64 `json:"percent"`
}

type DefaultFee struct {
	Percent float64 `json:"percent"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Service implements the admin-managed platform settings
type Service struct {
	repo   domainSettings.Repository
	bounds pricing.RateBounds
}

func NewService(repo domainSettings.Repository, bounds pricing.RateBounds) *Service {
	return &Service{repo: repo, bounds: bounds}
}

func (s *Service) PaymentMethods(ctx context.Context) ([]domainSettings.PaymentMethod, error) {
	return s.repo.PaymentMethods(ctx)
}

func (s *Service) AddPaymentMethod(ctx context.Context, req *PaymentMethodRequest) (*domainSettings.PaymentMethod, error) {
	req.Name = utils.SanitizeString(req.Name)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	icon := req.Icon
	if icon == "" {
		icon = "💳"
	}
	method := domainSettings.PaymentMethod{
		ID:   utils.NewPaymentMethodID(req.Name),
		Name: req.Name,
		Icon: icon,
	}
	if err := s.repo.AddPaymentMethod(ctx, method); err != nil {
		return nil, err
	}

	logger.Info("Payment method added",
		zap.String("method_id", method.ID),
		zap.String("event", "payment_method_added"),
	)
	return &method, nil
}

func (s *Service) RemovePaymentMethod(ctx context.Context, methodID string) error {
	if err := s.repo.RemovePaymentMethod(ctx, methodID); err != nil {
		return err
	}

	logger.Info("Payment method removed",
		zap.String("method_id", methodID),
		zap.String("event", "payment_method_removed"),
	)
	return nil
}

func (s *Service) DefaultFee(ctx context.Context) (*DefaultFee, error) {
	percent, err := s.repo.DefaultFeePercent(ctx)
	if err != nil {
		return nil, err
	}
	return &DefaultFee{Percent: percent, Min: s.bounds.Min, Max: s.bounds.Max}, nil
}

// SetDefaultFee stores the rate used to pre-fill new quotes. Requests that
// were already accepted keep the percent they were priced with.
func (s *Service) SetDefaultFee(ctx context.Context, req *DefaultFeeRequest) (*DefaultFee, error) {
	if err := s.bounds.Check(req.Percent); err != nil {
		return nil, appErrors.NewValidationError("percent", err.Error())
	}
	if err := s.repo.SetDefaultFeePercent(ctx, req.Percent); err != nil {
		return nil, err
	}

	logger.Info("Default broker fee updated",
		zap.Float64("percent", req.Percent),
		zap.String("event", "default_fee_updated"),
	)
	return &DefaultFee{Percent: req.Percent, Min: s.bounds.Min, Max: s.bounds.Max}, nil
}
