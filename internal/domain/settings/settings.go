package settings

import (
	"context"
	"errors"
)

var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrPaymentMethodExists   = errors.New("payment method already exists")
)

// PaymentMethod is an admin-managed option shown on invoices.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: "visa", Name: "Visa", Icon: "💳"},
		{ID: "bank", Name: "Bank Transfer", Icon: "🏦"},
		{ID: "m-pesa", Name: "M-Pesa / Mobile Money", Icon: "📱"},
	}
}

// Repository holds platform-wide settings
type Repository interface {
	PaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	AddPaymentMethod(ctx context.Context, method PaymentMethod) error
	RemovePaymentMethod(ctx context.Context, methodID string) error

	DefaultFeePercent(ctx context.Context) (float64, error)
	SetDefaultFeePercent(ctx context.Context, percent float64) error
}
