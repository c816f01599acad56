package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositiveTotal  = errors.New("total price must be greater than zero")
	ErrFeeOutOfRange     = errors.New("broker fee must be between zero and the total price")
	ErrPercentOutOfRange = errors.New("broker fee percent must be between 0 and 100")
)

// Breakdown splits a total price into the carrier's base and the platform's fee.
// Base + Fee == Total holds exactly.
type Breakdown struct {
	Total   Money   `json:"total"`
	Fee     Money   `json:"fee"`
	Base    Money   `json:"base"`
	Percent float64 `json:"percent"`
}

// Compute derives the fee from a percentage of total.
func Compute(total Money, ratePercent float64) Breakdown {
	fee := Money(math.Round(float64(total) * ratePercent / 100))
	return Breakdown{
		Total:   total,
		Fee:     fee,
		Base:    total - fee,
		Percent: ratePercent,
	}
}

// FromFee builds a breakdown from an explicit fee, deriving the percentage
// to two decimals.
func FromFee(total, fee Money) Breakdown {
	var pct float64
	if total > 0 {
		pct = math.Round(float64(fee)/float64(total)*10000) / 100
	}
	return Breakdown{
		Total:   total,
		Fee:     fee,
		Base:    total - fee,
		Percent: pct,
	}
}

func (b Breakdown) Validate() error {
	if b.Total <= 0 {
		return ErrNonPositiveTotal
	}
	if b.Fee < 0 || b.Fee > b.Total {
		return ErrFeeOutOfRange
	}
	if b.Percent < 0 || b.Percent > 100 {
		return ErrPercentOutOfRange
	}
	return nil
}

// RateBounds is the admin-facing range for the global default rate.
type RateBounds struct {
	Min float64
	Max float64
}

func (r RateBounds) Check(percent float64) error {
	if percent < r.Min || percent > r.Max {
		return fmt.Errorf("default fee percent %.2f outside %.0f..%.0f", percent, r.Min, r.Max)
	}
	return nil
}
