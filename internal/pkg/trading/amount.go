// Package trading provides trading calculation utilities.
package trading

import "github.com/shopspring/decimal"

// PositionSize returns the quantity that risks a fixed notional at the
// given price: riskAmount / price. Zero when either input is unusable.
func PositionSize(riskAmount, price float64) float64 {
	if riskAmount <= 0 || price <= 0 {
		return 0
	}
	qty, _ := decimal.NewFromFloat(riskAmount).
		Div(decimal.NewFromFloat(price)).
		Float64()
	return qty
}

// HedgeQuantity sizes the hedge leg so its notional matches the primary
// leg: quantity * price / hedgePrice.
func HedgeQuantity(quantity, price, hedgePrice float64) float64 {
	if quantity <= 0 || price <= 0 || hedgePrice <= 0 {
		return 0
	}
	qty, _ := decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(price)).
		Div(decimal.NewFromFloat(hedgePrice)).
		Float64()
	return qty
}

// ProfitLoss computes the leveraged P&L of a closed position. For shorts
// the entry/exit difference is inverted.
func ProfitLoss(entry, exit, quantity, leverage float64, short bool) float64 {
	if leverage <= 0 {
		leverage = 1
	}
	diff := decimal.NewFromFloat(exit).Sub(decimal.NewFromFloat(entry))
	if short {
		diff = diff.Neg()
	}
	pnl, _ := diff.
		Mul(decimal.NewFromFloat(quantity)).
		Mul(decimal.NewFromFloat(leverage)).
		Float64()
	return pnl
}
