package handler

import "github.com/shopspring/decimal"

// priceFrom converts a bound request price into the decimal the
// application layer expects.
func priceFrom(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// optionalPrice converts an optional request price, passing nil through
// so absent prices stay absent downstream.
func optionalPrice(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
