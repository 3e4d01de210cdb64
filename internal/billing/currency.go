package billing

import (
	"math"
	"strings"
)

// RoundingPolicy names how a converted amount was rounded.
type RoundingPolicy string

const (
	// RoundWhole rounds to the nearest integer, for currencies with no
	// fractional subunit in everyday pricing.
	RoundWhole RoundingPolicy = "whole"
	// RoundCents rounds to two decimal places.
	RoundCents RoundingPolicy = "cents"
)

// CurrencyTable holds the gateway's supported-currency set and the
// zero-decimal subset. Both are injected from configuration so they can
// track the gateway's support matrix without a code change.
type CurrencyTable struct {
	supported   map[string]bool
	zeroDecimal map[string]bool
}

// NewCurrencyTable builds a table from the configured code lists. Codes are
// normalized to upper case.
func NewCurrencyTable(supported, zeroDecimal []string) *CurrencyTable {
	t := &CurrencyTable{
		supported:   make(map[string]bool, len(supported)),
		zeroDecimal: make(map[string]bool, len(zeroDecimal)),
	}
	for _, code := range supported {
		t.supported[strings.ToUpper(code)] = true
	}
	for _, code := range zeroDecimal {
		t.zeroDecimal[strings.ToUpper(code)] = true
	}
	return t
}

// Supports reports whether the gateway can settle in the currency.
func (t *CurrencyTable) Supports(code string) bool {
	return t.supported[strings.ToUpper(code)]
}

// Policy returns the rounding policy for a currency code. The policy is a
// pure property of the code alone.
func (t *CurrencyTable) Policy(code string) RoundingPolicy {
	if t.zeroDecimal[strings.ToUpper(code)] {
		return RoundWhole
	}
	return RoundCents
}

// Round applies the currency's rounding policy to an amount.
func (t *CurrencyTable) Round(amount float64, code string) float64 {
	if t.Policy(code) == RoundWhole {
		return math.Round(amount)
	}
	return math.Round(amount*100) / 100
}
