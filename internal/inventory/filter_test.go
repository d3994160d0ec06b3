package inventory

import (
	"testing"
)

func filterFixture(t *testing.T) ([]Item, ParTable, Sheet) {
	t.Helper()
	items := []Item{
		{ID: "1", Vendor: "Sysco", Category: "Dairy", Name: "Whole Milk", BeginningInventory: dec(t, "4")},
		{ID: "2", Vendor: "Baldor", Category: "Produce", Name: "Lemons", BeginningInventory: dec(t, "0")},
		{ID: "3", Vendor: "Sysco", Category: "Paper", Name: "Cups 12oz", BeginningInventory: dec(t, "300")},
		{ID: "4", Vendor: "Counter Culture", Category: "Coffee", Name: "Espresso Beans", BeginningInventory: dec(t, "10")},
	}
	pars := ParTable{"1": dec(t, "6"), "3": dec(t, "200"), "4": dec(t, "12")}
	sheet := Sheet{
		"1": {EndingInventory: qty(t, "2"), ActualOrder: qty(t, "6")},
		"4": {EndingInventory: qty(t, "11"), ActualOrder: qty(t, "0")},
		"3": {ActualOrder: qty(t, "100")},
	}
	return items, pars, sheet
}

func ids(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Item.ID)
	}
	return out
}

func TestListItemsFilters(t *testing.T) {
	items, pars, sheet := filterFixture(t)
	low := StatusLow
	out := StatusOut

	testCases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter keeps catalog order", Filter{}, []string{"1", "2", "3", "4"}},
		{"vendor", Filter{Vendor: "Sysco"}, []string{"1", "3"}},
		{"search name case-insensitive", Filter{Search: "LEMON"}, []string{"2"}},
		{"search category", Filter{Search: "paper"}, []string{"3"}},
		{"search vendor", Filter{Search: "culture"}, []string{"4"}},
		{"status low", Filter{Status: &low}, []string{"4"}},
		{"status out", Filter{Status: &out}, []string{"1", "2"}},
		{"combined", Filter{Vendor: "Sysco", Status: &out}, []string{"1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(ListItems(items, pars, sheet, tc.filter))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestVendorsAndGrouping(t *testing.T) {
	items, pars, sheet := filterFixture(t)
	vendors := Vendors(items)
	want := []string{"Baldor", "Counter Culture", "Sysco"}
	if len(vendors) != len(want) {
		t.Fatalf("expected %v, got %v", want, vendors)
	}
	for i := range want {
		if vendors[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, vendors)
		}
	}

	groups := GroupByVendor(ListItems(items, pars, sheet, Filter{}))
	if len(groups) != 3 || groups[2].Vendor != "Sysco" {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if got := ids(groups[2].Lines); len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("expected Sysco lines in catalog order, got %v", got)
	}
}

func TestOrderSummaryAndCounts(t *testing.T) {
	items, pars, sheet := filterFixture(t)
	summary := OrderSummary(items, sheet)
	if len(summary) != 1 || summary[0].Vendor != "Sysco" {
		t.Fatalf("expected only Sysco orders, got %+v", summary)
	}
	if OrderCount(summary) != 2 {
		t.Fatalf("expected two order lines, got %d", OrderCount(summary))
	}
	if !summary[0].Lines[1].Quantity.Equal(dec(t, "100")) {
		t.Fatalf("unexpected order quantity %s", summary[0].Lines[1].Quantity)
	}
	if got := AttentionCount(items, pars, sheet); got != 3 {
		t.Fatalf("expected 3 items needing attention, got %d", got)
	}
}
