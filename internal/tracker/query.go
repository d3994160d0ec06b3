package tracker

import (
	"fmt"

	"github.com/shopspring/decimal"

	"parcount/internal/inventory"
)

// Items returns a copy of the catalog in insertion order.
func (t *Tracker) Items() []inventory.Item {
	var items []inventory.Item
	t.view(func(s *state) { items = inventory.CloneItems(s.items) })
	return items
}

// Pars returns a copy of the par table.
func (t *Tracker) Pars() inventory.ParTable {
	var pars inventory.ParTable
	t.view(func(s *state) { pars = s.pars.Clone() })
	return pars
}

// Sheet returns a copy of the current week's sheet.
func (t *Tracker) Sheet() inventory.Sheet {
	var sheet inventory.Sheet
	t.view(func(s *state) { sheet = s.sheet.Clone() })
	return sheet
}

// History returns closed weeks, newest first.
func (t *Tracker) History() []inventory.HistoryEntry {
	var history []inventory.HistoryEntry
	t.view(func(s *state) { history = inventory.CloneHistory(s.history) })
	return history
}

// Lines derives every item matching f, in catalog order.
func (t *Tracker) Lines(f inventory.Filter) ([]inventory.Line, error) {
	var lines []inventory.Line
	var err error
	t.view(func(s *state) {
		if !s.setup.Done {
			err = ErrSetupRequired
			return
		}
		lines = inventory.ListItems(s.items, s.pars, s.sheet, f)
	})
	return lines, err
}

// Line derives a single item.
func (t *Tracker) Line(id string) (inventory.Line, error) {
	var line inventory.Line
	var err error
	t.view(func(s *state) {
		if !s.setup.Done {
			err = ErrSetupRequired
			return
		}
		i := inventory.IndexOf(s.items, id)
		if i < 0 {
			err = fmt.Errorf("%w: %s", inventory.ErrItemNotFound, id)
			return
		}
		line = inventory.Derive(s.items[i], s.pars, s.sheet)
	})
	return line, err
}

// StatusOf returns the stock status of an item.
func (t *Tracker) StatusOf(id string) (inventory.Status, error) {
	line, err := t.Line(id)
	return line.Status, err
}

// UsageOf returns the week's usage for an item; unset until counted.
func (t *Tracker) UsageOf(id string) (decimal.NullDecimal, error) {
	line, err := t.Line(id)
	return line.Usage, err
}

// SuggestedOf returns the suggested order for an item; unset without a par
// or a count.
func (t *Tracker) SuggestedOf(id string) (decimal.NullDecimal, error) {
	line, err := t.Line(id)
	return line.Suggested, err
}

// Vendors returns the distinct vendors in the catalog, sorted.
func (t *Tracker) Vendors() []string {
	var vendors []string
	t.view(func(s *state) { vendors = inventory.Vendors(s.items) })
	return vendors
}

// OrderSummary groups items with a positive actual order by vendor.
func (t *Tracker) OrderSummary() ([]inventory.VendorOrders, error) {
	var summary []inventory.VendorOrders
	var err error
	t.view(func(s *state) {
		if !s.setup.Done {
			err = ErrSetupRequired
			return
		}
		summary = inventory.OrderSummary(s.items, s.sheet)
	})
	return summary, err
}

// AttentionCount reports how many items are low or out.
func (t *Tracker) AttentionCount() (int, error) {
	var n int
	var err error
	t.view(func(s *state) {
		if !s.setup.Done {
			err = ErrSetupRequired
			return
		}
		n = inventory.AttentionCount(s.items, s.pars, s.sheet)
	})
	return n, err
}
