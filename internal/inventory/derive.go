package inventory

import (
	"github.com/shopspring/decimal"
)

// outRatio is the fraction of par at or below which stock counts as out.
var outRatio = decimal.New(5, -1)

// Beginning returns the item's opening stock for the week.
func Beginning(item Item) decimal.Decimal {
	return item.BeginningInventory
}

// Ending returns the counted ending inventory, unset when not yet entered.
func Ending(item Item, sheet Sheet) decimal.NullDecimal {
	return sheet[item.ID].EndingInventory
}

// ActualOrder returns the recorded order quantity, unset when not yet entered.
func ActualOrder(item Item, sheet Sheet) decimal.NullDecimal {
	return sheet[item.ID].ActualOrder
}

// Usage is beginning minus ending. It stays unset until a count exists and
// may be negative.
func Usage(item Item, sheet Sheet) decimal.NullDecimal {
	ending := Ending(item, sheet)
	if !ending.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(Beginning(item).Sub(ending.Decimal))
}

// UsageAnomaly reports a negative usage: stock went up without a recorded order.
func UsageAnomaly(usage decimal.NullDecimal) bool {
	return usage.Valid && usage.Decimal.IsNegative()
}

// SuggestedOrder returns the whole quantity needed to bring ending stock back
// to par. It is unset when either the par or the count is missing, and zero
// when stock is already at or above par.
func SuggestedOrder(item Item, pars ParTable, sheet Sheet) decimal.NullDecimal {
	par, ok := pars[item.ID]
	if !ok {
		return decimal.NullDecimal{}
	}
	ending := Ending(item, sheet)
	if !ending.Valid {
		return decimal.NullDecimal{}
	}
	need := par.Sub(ending.Decimal)
	if need.IsPositive() {
		return decimal.NewNullDecimal(need.Ceil())
	}
	return decimal.NewNullDecimal(decimal.Zero)
}

// StatusOf grades the item's stock against its par. The count is used when
// present, otherwise the beginning inventory.
func StatusOf(item Item, pars ParTable, sheet Sheet) Status {
	inv := Beginning(item)
	if ending := Ending(item, sheet); ending.Valid {
		inv = ending.Decimal
	}
	if !inv.IsPositive() {
		return StatusOut
	}
	par, ok := pars[item.ID]
	if !ok || par.IsZero() {
		return StatusOK
	}
	if inv.LessThanOrEqual(par.Mul(outRatio)) {
		return StatusOut
	}
	if inv.LessThanOrEqual(par) {
		return StatusLow
	}
	return StatusOK
}

// Line bundles an item with every value derived for it.
type Line struct {
	Item        Item
	Par         decimal.NullDecimal
	Ending      decimal.NullDecimal
	ActualOrder decimal.NullDecimal
	Usage       decimal.NullDecimal
	Suggested   decimal.NullDecimal
	Status      Status
	Anomaly     bool
}

// Derive computes the full line for an item.
func Derive(item Item, pars ParTable, sheet Sheet) Line {
	line := Line{
		Item:        item,
		Ending:      Ending(item, sheet),
		ActualOrder: ActualOrder(item, sheet),
		Usage:       Usage(item, sheet),
		Suggested:   SuggestedOrder(item, pars, sheet),
		Status:      StatusOf(item, pars, sheet),
	}
	if par, ok := pars[item.ID]; ok {
		line.Par = decimal.NewNullDecimal(par)
	}
	line.Anomaly = UsageAnomaly(line.Usage)
	return line
}
