package inventory

import (
	"github.com/shopspring/decimal"
)

// CloseResult is the state produced by closing a week.
type CloseResult struct {
	Entry   HistoryEntry
	Items   []Item
	History []HistoryEntry
	Sheet   Sheet
}

// CloseWeek archives the sheet for week into a new history entry and rolls
// every item's beginning inventory forward to ending plus actual order.
// Uncounted items carry their beginning inventory; missing orders count as
// zero. The inputs are not modified.
func CloseWeek(week Week, items []Item, pars ParTable, sheet Sheet, history []HistoryEntry) CloseResult {
	entry := HistoryEntry{
		Week:  week.ID,
		Label: week.Label,
		Data:  make(map[string]HistoryRow, len(items)),
	}
	rolled := make([]Item, len(items))

	for i, item := range items {
		beginning := Beginning(item)
		ending := beginning
		if e := Ending(item, sheet); e.Valid {
			ending = e.Decimal
		}
		order := decimal.Zero
		if o := ActualOrder(item, sheet); o.Valid {
			order = o.Decimal
		}

		entry.Data[item.ID] = HistoryRow{
			Vendor:      item.Vendor,
			Name:        item.Name,
			Beginning:   beginning,
			Ending:      ending,
			Usage:       Usage(item, sheet),
			ActualOrder: order,
			Suggested:   SuggestedOrder(item, pars, sheet),
		}

		next := item
		next.BeginningInventory = ending.Add(order)
		rolled[i] = next
	}

	return CloseResult{
		Entry:   entry,
		Items:   rolled,
		History: PrependHistory(history, entry),
		Sheet:   Sheet{},
	}
}

// PrependHistory returns a new history with entry first, truncated to
// HistoryLimit entries.
func PrependHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	n := len(history) + 1
	if n > HistoryLimit {
		n = HistoryLimit
	}
	out := make([]HistoryEntry, 0, n)
	out = append(out, entry)
	for _, h := range history {
		if len(out) == n {
			break
		}
		out = append(out, h)
	}
	return out
}
