package billing

import "math"

// amountTolerance is how closely the quote's source amount must match the
// requested USD amount before we trust the destination amount as the
// converted total.
const amountTolerance = 0.01

// quoteShape is the closed set of response shapes the gateway's rate lookup
// has been observed to return. The documented contract is ambiguous across
// currencies, so each shape is detected explicitly and mapped to one
// deterministic formula instead of guessing inline.
type quoteShape int

const (
	shapeUnusable quoteShape = iota
	// source.amount matches the queried USD amount: destination.amount is
	// the converted total.
	shapeSourceDestination
	// source.amount is 1: destination.amount is the unit USD→target rate.
	shapeSourceUnitRate
	// Both amounts present and positive but neither matches: derive the rate
	// from their ratio.
	shapeRatioDerived
	// Only a top-level rate field is usable.
	shapeBareRate
	// Only destination.amount exists; whether it is a rate or a total has to
	// be guessed from magnitude.
	shapeDestinationOnly
)

func positive(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 0
}

// classifyQuote assigns a quote its shape, in priority order.
func classifyQuote(q *RateQuote, usdAmount float64) quoteShape {
	var srcAmount, dstAmount *float64
	if q.Source != nil {
		srcAmount = q.Source.Amount
	}
	if q.Destination != nil {
		dstAmount = q.Destination.Amount
	}

	switch {
	case positive(srcAmount) && positive(dstAmount) && math.Abs(*srcAmount-usdAmount) <= amountTolerance:
		return shapeSourceDestination
	case positive(srcAmount) && positive(dstAmount) && math.Abs(*srcAmount-1) <= amountTolerance:
		return shapeSourceUnitRate
	case positive(srcAmount) && positive(dstAmount):
		return shapeRatioDerived
	case positive(q.Rate):
		return shapeBareRate
	case positive(dstAmount):
		return shapeDestinationOnly
	default:
		return shapeUnusable
	}
}

// Convert resolves a USD price into the target currency from a gateway rate
// quote, applying the currency's rounding policy. It never returns an
// unvalidated number: a quote that yields nothing finite and positive is a
// conversion error.
func Convert(usdPrice float64, targetCurrency string, quote *RateQuote, currencies *CurrencyTable) (*ConversionResult, *Error) {
	if quote == nil {
		return nil, NewError(KindConversion, nil, "gateway returned an empty rate response")
	}

	var converted float64
	switch classifyQuote(quote, usdPrice) {
	case shapeSourceDestination:
		converted = *quote.Destination.Amount
	case shapeSourceUnitRate:
		converted = usdPrice * *quote.Destination.Amount
	case shapeRatioDerived:
		converted = usdPrice * (*quote.Destination.Amount / *quote.Source.Amount)
	case shapeBareRate:
		converted = usdPrice * *quote.Rate
	case shapeDestinationOnly:
		dest := *quote.Destination.Amount
		// A value far below any plausible converted total is a rate; a large
		// one is the total itself. The 10 000 ceiling keeps a genuinely huge
		// rate from being mistaken for a total on cheap plans.
		if dest < usdPrice*100 && dest < 10_000 {
			converted = usdPrice * dest
		} else {
			converted = dest
		}
	default:
		return nil, NewError(KindConversion, nil, "gateway rate response could not be interpreted")
	}

	if math.IsNaN(converted) || math.IsInf(converted, 0) || converted <= 0 {
		return nil, NewError(KindConversion, nil, "gateway rate produced an invalid amount")
	}

	return &ConversionResult{
		SourceAmountUSD: usdPrice,
		TargetCurrency:  targetCurrency,
		ConvertedAmount: currencies.Round(converted, targetCurrency),
		Rounding:        currencies.Policy(targetCurrency),
	}, nil
}
