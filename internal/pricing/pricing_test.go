package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaseAndFeeSumToTotal(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		percent float64
		fee     Money
	}{
		{name: "round numbers", total: 1000, percent: 10, fee: 10000},
		{name: "fractional fee rounds half away from zero", total: 0.25, percent: 10, fee: 3},
		{name: "odd cents", total: 1234.57, percent: 12.5, fee: 15432},
		{name: "zero percent", total: 99.99, percent: 0, fee: 0},
		{name: "full percent", total: 50, percent: 100, fee: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := FromFloat(tt.total)
			b := Compute(total, tt.percent)

			assert.Equal(t, tt.fee, b.Fee)
			assert.Equal(t, total, b.Base+b.Fee)
			assert.Equal(t, tt.percent, b.Percent)
		})
	}
}

func TestFromFeeDerivesPercent(t *testing.T) {
	b := FromFee(FromFloat(2000), FromFloat(150))

	assert.Equal(t, 7.5, b.Percent)
	assert.Equal(t, FromFloat(1850), b.Base)
}

func TestBreakdownValidate(t *testing.T) {
	assert.NoError(t, Compute(FromFloat(100), 10).Validate())
	assert.ErrorIs(t, Compute(0, 10).Validate(), ErrNonPositiveTotal)
	assert.ErrorIs(t, Compute(FromFloat(-5), 10).Validate(), ErrNonPositiveTotal)
	assert.ErrorIs(t, FromFee(FromFloat(100), FromFloat(120)).Validate(), ErrFeeOutOfRange)
	assert.ErrorIs(t, Breakdown{Total: 100, Fee: 10, Base: 90, Percent: 120}.Validate(), ErrPercentOutOfRange)
}

func TestRateBounds(t *testing.T) {
	bounds := RateBounds{Min: 1, Max: 40}

	assert.NoError(t, bounds.Check(1))
	assert.NoError(t, bounds.Check(40))
	assert.Error(t, bounds.Check(0.5))
	assert.Error(t, bounds.Check(41))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: FromFloat(1250.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1250.50}`, string(data))

	var decoded struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":19.999}`), &decoded))
	assert.Equal(t, Money(2000), decoded.Price)

	assert.Equal(t, "-3.05", Money(-305).String())
}

func TestStaticCurrency(t *testing.T) {
	tests := []struct {
		location string
		code     string
		ok       bool
	}{
		{location: "Nairobi, Kenya", code: "KES", ok: true},
		{location: "  Dar es Salaam, TANZANIA ", code: "TZS", ok: true},
		{location: "Austin, United States", code: "USD", ok: true},
		{location: "London, UK", code: "GBP", ok: true},
		{location: "Kampala, Uganda", code: "UGX", ok: true},
		{location: "Lyon, France", ok: false},
		{location: "uk", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			info, ok := StaticCurrency(tt.location)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.code, info.Code)
			}
		})
	}
}

func TestLocalize(t *testing.T) {
	kes, ok := StaticCurrency("kenya")
	require.True(t, ok)

	assert.Equal(t, FromFloat(12950), Localize(FromFloat(100), kes))
	assert.Equal(t, FromFloat(100), Localize(FromFloat(100), USD))
	assert.Equal(t, FromFloat(100), Localize(FromFloat(100), CurrencyInfo{Code: "XXX"}))
}
