package inventory

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows the catalog view. Zero values match everything.
type Filter struct {
	Vendor string
	Search string
	Status *Status
}

// Match reports whether a derived line passes the filter.
func (f Filter) Match(line Line) bool {
	if f.Vendor != "" && line.Item.Vendor != f.Vendor {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(line.Item.Name), s) &&
			!strings.Contains(strings.ToLower(line.Item.Category), s) &&
			!strings.Contains(strings.ToLower(line.Item.Vendor), s) {
			return false
		}
	}
	if f.Status != nil && line.Status != *f.Status {
		return false
	}
	return true
}

// ListItems derives every item and keeps those matching f, in catalog order.
func ListItems(items []Item, pars ParTable, sheet Sheet, f Filter) []Line {
	var lines []Line
	for _, item := range items {
		line := Derive(item, pars, sheet)
		if f.Match(line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// Vendors returns the distinct vendors in the catalog, sorted.
func Vendors(items []Item) []string {
	seen := make(map[string]struct{})
	var vendors []string
	for _, item := range items {
		if _, ok := seen[item.Vendor]; ok {
			continue
		}
		seen[item.Vendor] = struct{}{}
		vendors = append(vendors, item.Vendor)
	}
	sort.Strings(vendors)
	return vendors
}

// VendorGroup is a run of lines sharing a vendor.
type VendorGroup struct {
	Vendor string
	Lines  []Line
}

// GroupByVendor groups lines by vendor. Groups are sorted by vendor name and
// lines keep their incoming order.
func GroupByVendor(lines []Line) []VendorGroup {
	index := make(map[string]int)
	var groups []VendorGroup
	for _, line := range lines {
		i, ok := index[line.Item.Vendor]
		if !ok {
			i = len(groups)
			index[line.Item.Vendor] = i
			groups = append(groups, VendorGroup{Vendor: line.Item.Vendor})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Vendor < groups[b].Vendor
	})
	return groups
}

// OrderLine is an item with a positive actual order this week.
type OrderLine struct {
	Item     Item
	Quantity decimal.Decimal
}

// VendorOrders collects the order lines for one vendor.
type VendorOrders struct {
	Vendor string
	Lines  []OrderLine
}

// OrderSummary groups this week's positive actual orders by vendor.
func OrderSummary(items []Item, sheet Sheet) []VendorOrders {
	index := make(map[string]int)
	var summary []VendorOrders
	for _, item := range items {
		order := ActualOrder(item, sheet)
		if !order.Valid || !order.Decimal.IsPositive() {
			continue
		}
		i, ok := index[item.Vendor]
		if !ok {
			i = len(summary)
			index[item.Vendor] = i
			summary = append(summary, VendorOrders{Vendor: item.Vendor})
		}
		summary[i].Lines = append(summary[i].Lines, OrderLine{Item: item, Quantity: order.Decimal})
	}
	sort.SliceStable(summary, func(a, b int) bool {
		return summary[a].Vendor < summary[b].Vendor
	})
	return summary
}

// OrderCount counts the order lines across all vendors.
func OrderCount(summary []VendorOrders) int {
	n := 0
	for _, v := range summary {
		n += len(v.Lines)
	}
	return n
}

// AttentionCount counts items whose status is not OK.
func AttentionCount(items []Item, pars ParTable, sheet Sheet) int {
	n := 0
	for _, item := range items {
		if StatusOf(item, pars, sheet) != StatusOK {
			n++
		}
	}
	return n
}
