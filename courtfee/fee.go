// Package courtfee computes the ad valorem court fee payable on a money claim.
package courtfee

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a claim amount cannot be read as a non-negative number.
var ErrInvalidAmount = errors.New("courtfee: invalid claim amount")

// Tier ceilings and rates. The rate applies to the whole amount, not only
// to the portion above the previous ceiling.
const (
	LowerCeiling  = 100000.0
	MiddleCeiling = 500000.0

	LowerRate  = 0.075
	MiddleRate = 0.05
	UpperRate  = 0.03
)

// Fee is the result of a fee calculation. Valid is false when the amount
// could not be parsed; Amount and Rate are zero in that case.
type Fee struct {
	Claim  float64 `json:"claim"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
	Valid  bool    `json:"valid"`
}

// Invalid is the sentinel returned for unparseable input.
var Invalid = Fee{}

// Calculate parses raw and returns the fee for it, or Invalid.
func Calculate(raw string) Fee {
	amount, err := ParseAmount(raw)
	if err != nil {
		return Invalid
	}
	return ForAmount(amount)
}

// ForAmount returns the fee for an already parsed amount.
func ForAmount(amount float64) Fee {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Invalid
	}
	rate := RateFor(amount)
	return Fee{
		Claim:  amount,
		Rate:   rate,
		Amount: round2(amount * rate),
		Valid:  true,
	}
}

// RateFor returns the tier rate for amount.
func RateFor(amount float64) float64 {
	switch {
	case amount <= LowerCeiling:
		return LowerRate
	case amount <= MiddleCeiling:
		return MiddleRate
	default:
		return UpperRate
	}
}

// ParseAmount reads a money amount typed into a form. It tolerates a
// currency prefix, surrounding whitespace and digit grouping commas
// ("Rs. 1,00,000.50").
func ParseAmount(raw string) (float64, error) {
	s := strings.ReplaceAll(TrimCurrency(raw), ",", "")
	s = strings.TrimSuffix(s, "/-")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

var currencyPrefixes = []string{"Rs.", "Rs", "INR", "₹"}

// TrimCurrency strips surrounding whitespace and one leading currency
// marker from raw, leaving the digits as typed ("Rs. 50,000" -> "50,000").
func TrimCurrency(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range currencyPrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
