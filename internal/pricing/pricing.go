// Package pricing computes the monetary estimate and GreenCoins reward for a
// waste pickup. It is a pure calculator: same inputs always produce the same
// outputs, and it touches no shared state.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"greencycle/internal/domain"
)

// ErrInvalidQuantity is returned when the quantity is zero or negative.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Rate per kilogram in rupees by waste type.
var ratePerKg = map[domain.WasteType]decimal.Decimal{
	domain.WasteTypePaper:     decimal.NewFromInt(8),
	domain.WasteTypePlastic:   decimal.NewFromInt(12),
	domain.WasteTypeMetal:     decimal.NewFromInt(30),
	domain.WasteTypeEWaste:    decimal.NewFromInt(25),
	domain.WasteTypeOrganic:   decimal.NewFromInt(2),
	domain.WasteTypeMixed:     decimal.NewFromInt(5),
	domain.WasteTypeCardboard: decimal.NewFromInt(10),
	domain.WasteTypeGlass:     decimal.NewFromInt(6),
}

// defaultRate applies to waste types without an entry in the rate table.
var defaultRate = decimal.NewFromInt(5)

// coinsPerRupee is the GreenCoins multiplier: coins = floor(value * 2).
var coinsPerRupee = decimal.NewFromInt(2)

// RateFor returns the per-kg rate for a waste type in rupees.
func RateFor(wasteType domain.WasteType) float64 {
	rate, ok := ratePerKg[wasteType]
	if !ok {
		rate = defaultRate
	}
	f, _ := rate.Float64()
	return f
}

// Estimate returns the monetary value and GreenCoins reward for the given
// waste type and quantity. Decimal arithmetic keeps the floor in the coins
// calculation exact for fractional quantities.
func Estimate(wasteType domain.WasteType, quantityKg float64) (float64, int64, error) {
	if quantityKg <= 0 {
		return 0, 0, ErrInvalidQuantity
	}

	rate, ok := ratePerKg[wasteType]
	if !ok {
		rate = defaultRate
	}

	value := rate.Mul(decimal.NewFromFloat(quantityKg))
	coins := value.Mul(coinsPerRupee).Floor().IntPart()

	v, _ := value.Float64()
	return v, coins, nil
}

// CoinsFor returns the GreenCoins reward for a monetary value.
func CoinsFor(value float64) int64 {
	return decimal.NewFromFloat(value).Mul(coinsPerRupee).Floor().IntPart()
}

// EcoScoreDelta returns the EcoScore increase for a completed pickup:
// floor(quantityKg * 0.5).
func EcoScoreDelta(quantityKg float64) int64 {
	return decimal.NewFromFloat(quantityKg).
		Mul(decimal.NewFromFloat(0.5)).
		Floor().
		IntPart()
}
