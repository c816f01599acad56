package storage

import (
	"context"
	"sync"

	"cargo-broker/internal/domain/settings"
	"cargo-broker/internal/store"
)

type SettingsRepository struct {
	mu             sync.Mutex
	paymentMethods []settings.PaymentMethod
	defaultFee     float64
	collections    *store.Collections
}

// NewSettingsRepository loads stored settings, falling back to the seeded
// payment methods and the configured default fee.
func NewSettingsRepository(ctx context.Context, collections *store.Collections, defaultFee float64) *SettingsRepository {
	methods, ok := collections.LoadPaymentMethods(ctx)
	if !ok {
		methods = settings.DefaultPaymentMethods()
	}
	if fee, ok := collections.LoadDefaultFee(ctx); ok {
		defaultFee = fee
	}

	return &SettingsRepository{
		paymentMethods: methods,
		defaultFee:     defaultFee,
		collections:    collections,
	}
}

func (r *SettingsRepository) PaymentMethods(ctx context.Context) ([]settings.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]settings.PaymentMethod(nil), r.paymentMethods...), nil
}

func (r *SettingsRepository) AddPaymentMethod(ctx context.Context, method settings.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.paymentMethods {
		if m.ID == method.ID {
			return settings.ErrPaymentMethodExists
		}
	}

	r.paymentMethods = append(r.paymentMethods, method)
	_ = r.collections.SavePaymentMethods(ctx, r.paymentMethods)
	return nil
}

func (r *SettingsRepository) RemovePaymentMethod(ctx context.Context, methodID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.paymentMethods {
		if m.ID == methodID {
			r.paymentMethods = append(r.paymentMethods[:i:i], r.paymentMethods[i+1:]...)
			_ = r.collections.SavePaymentMethods(ctx, r.paymentMethods)
			return nil
		}
	}
	return settings.ErrPaymentMethodNotFound
}

func (r *SettingsRepository) DefaultFeePercent(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.defaultFee, nil
}

func (r *SettingsRepository) SetDefaultFeePercent(ctx context.Context, percent float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaultFee = percent
	_ = r.collections.SaveDefaultFee(ctx, percent)
	return nil
}
