package valuation

import (
	"math"

	"github.com/shopspring/decimal"

	"motorsportstakes/internal/models"
)

const (
	// DefaultGhostPosition is the synthetic mid-grid result substituted when a
	// driver has no real history for a baseline slot.
	DefaultGhostPosition = 10
	// DefaultWindow is how many preceding races feed the baseline average.
	DefaultWindow = 3

	DefaultMinDifference = -20
	DefaultMaxDifference = 20
)

// Table is the in-memory copy of the valuation lookup table, loaded once per
// pass. Differences outside [Min, Max] are clamped to the nearest bound; a
// difference with no row yields 0%.
type Table struct {
	Min int
	Max int

	percents map[int]decimal.Decimal
}

func NewTable(entries []models.ValuationEntry, min, max int) *Table {
	if min >= max {
		min, max = DefaultMinDifference, DefaultMaxDifference
	}
	t := &Table{
		Min:      min,
		Max:      max,
		percents: make(map[int]decimal.Decimal, len(entries)),
	}
	for _, e := range entries {
		t.percents[e.Difference] = e.PercentChange
	}
	return t
}

func (t *Table) Percent(difference int) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	if difference < t.Min {
		difference = t.Min
	}
	if difference > t.Max {
		difference = t.Max
	}
	pct, ok := t.percents[difference]
	if !ok {
		return decimal.Zero
	}
	return pct
}

// Difference is the rounded gap between expected and actual position; a
// positive value means the entity finished better than its baseline.
func Difference(baseline float64, position int) int {
	return int(math.Round(baseline - float64(position)))
}

// Amount converts a percent change into a credit delta for the given value,
// rounded half away from zero.
func Amount(value int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(value).
		Mul(percent).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
