package inventory

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Stored quantities are JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// HistoryLimit caps the number of archived weeks kept in the history log.
const HistoryLimit = 52

// Item is a single trackable stock line in the catalog.
type Item struct {
	ID                 string          `json:"id"`
	Vendor             string          `json:"vendor"`
	Category           string          `json:"category"`
	Name               string          `json:"name"`
	BeginningInventory decimal.Decimal `json:"beginningInventory"`
}

// ParTable maps item ids to minimum stock levels. A missing id means no par
// has been set, which is not the same as a par of zero.
type ParTable map[string]decimal.Decimal

// Entry holds the counts recorded for one item during the current week.
// Either field may be unset.
type Entry struct {
	EndingInventory decimal.NullDecimal `json:"endingInventory"`
	ActualOrder     decimal.NullDecimal `json:"actualOrder"`
}

// Empty reports whether neither count has been entered.
func (e Entry) Empty() bool {
	return !e.EndingInventory.Valid && !e.ActualOrder.Valid
}

// Sheet is the weekly count sheet keyed by item id.
type Sheet map[string]Entry

// HistoryRow is the archived state of one item for a closed week.
type HistoryRow struct {
	Vendor      string              `json:"vendor"`
	Name        string              `json:"name"`
	Beginning   decimal.Decimal     `json:"beginning"`
	Ending      decimal.Decimal     `json:"ending"`
	Usage       decimal.NullDecimal `json:"usage"`
	ActualOrder decimal.Decimal     `json:"actualOrder"`
	Suggested   decimal.NullDecimal `json:"suggested"`
}

// HistoryEntry is an immutable snapshot of a closed week.
type HistoryEntry struct {
	Week  string                `json:"week"`
	Label string                `json:"label"`
	Data  map[string]HistoryRow `json:"data"`
}

// OrderedCount returns how many items had a positive actual order that week.
func (h HistoryEntry) OrderedCount() int {
	n := 0
	for _, row := range h.Data {
		if row.ActualOrder.IsPositive() {
			n++
		}
	}
	return n
}

// SetupConfig gates the tracker until the initial catalog has been entered.
type SetupConfig struct {
	Done        bool   `json:"done"`
	StartWeek   string `json:"startWeek"`
	StartLabel  string `json:"startLabel"`
	CompletedAt string `json:"completedAt"`
}

// CloneItems copies the catalog slice.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Clone copies the par table.
func (p ParTable) Clone() ParTable {
	out := make(ParTable, len(p))
	for id, v := range p {
		out[id] = v
	}
	return out
}

// Clone copies the sheet.
func (s Sheet) Clone() Sheet {
	out := make(Sheet, len(s))
	for id, e := range s {
		out[id] = e
	}
	return out
}

// CloneHistory copies the history slice. Entries are immutable so their
// data maps are shared.
func CloneHistory(history []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(history))
	copy(out, history)
	return out
}
