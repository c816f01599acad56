package pricing

import (
	"math"
	"sort"
	"strings"
)

type CurrencyInfo struct {
	Code      string  `json:"code"`
	Symbol    string  `json:"symbol"`
	RateToUSD float64 `json:"rateToUsd"`
}

var USD = CurrencyInfo{Code: "USD", Symbol: "$", RateToUSD: 1.0}

var fallbackCurrencies = map[string]CurrencyInfo{
	"usa":           USD,
	"united states": USD,
	"uk":            {Code: "GBP", Symbol: "£", RateToUSD: 0.79},
	"kenya":         {Code: "KES", Symbol: "KSh", RateToUSD: 129.5},
	"tanzania":      {Code: "TZS", Symbol: "TSh", RateToUSD: 2615.0},
	"uganda":        {Code: "UGX", Symbol: "USh", RateToUSD: 3690.0},
}

// fallbackKeys are matched longest first so "united states" wins over shorter keys.
var fallbackKeys = func() []string {
	keys := make([]string, 0, len(fallbackCurrencies))
	for k := range fallbackCurrencies {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// NormalizeLocation lowercases and trims a free-text location.
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// StaticCurrency looks a location up in the built-in table. Locations shorter
// than three characters never match.
func StaticCurrency(location string) (CurrencyInfo, bool) {
	loc := NormalizeLocation(location)
	if len(loc) < 3 {
		return CurrencyInfo{}, false
	}
	for _, key := range fallbackKeys {
		if strings.Contains(loc, key) {
			return fallbackCurrencies[key], true
		}
	}
	return CurrencyInfo{}, false
}

// Localize converts a USD amount for display. Persisted amounts are never converted.
func Localize(totalUSD Money, info CurrencyInfo) Money {
	rate := info.RateToUSD
	if rate <= 0 {
		rate = 1
	}
	return Money(math.Round(float64(totalUSD) * rate))
}
