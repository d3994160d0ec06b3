package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func qty(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	return decimal.NewNullDecimal(dec(t, s))
}

func requireQty(t *testing.T, label string, got decimal.NullDecimal, want string) {
	t.Helper()
	if want == "" {
		if got.Valid {
			t.Fatalf("%s: expected unset, got %s", label, got.Decimal)
		}
		return
	}
	if !got.Valid {
		t.Fatalf("%s: expected %s, got unset", label, want)
	}
	if !got.Decimal.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: expected %s, got %s", label, want, got.Decimal)
	}
}

func testItem(t *testing.T, id, beginning string) Item {
	t.Helper()
	return Item{ID: id, Vendor: "Sysco", Category: "Dairy", Name: "Milk " + id, BeginningInventory: dec(t, beginning)}
}

func TestDeriveWorkedExamples(t *testing.T) {
	item := testItem(t, "milk", "10")
	pars := ParTable{"milk": dec(t, "5")}

	testCases := []struct {
		name      string
		ending    string
		usage     string
		suggested string
		status    Status
	}{
		{"above half par", "3", "7", "2", StatusLow},
		{"at or below half par", "2", "8", "3", StatusOut},
		{"zero count", "0", "10", "5", StatusOut},
		{"above par", "8", "2", "0", StatusOK},
		{"exactly par", "5", "5", "0", StatusLow},
		{"fractional shortfall rounds up", "4.2", "5.8", "1", StatusLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sheet := Sheet{"milk": {EndingInventory: qty(t, tc.ending)}}
			requireQty(t, "usage", Usage(item, sheet), tc.usage)
			requireQty(t, "suggested", SuggestedOrder(item, pars, sheet), tc.suggested)
			if got := StatusOf(item, pars, sheet); got != tc.status {
				t.Fatalf("expected status %s, got %s", tc.status, got)
			}
		})
	}
}

func TestNoCountLeavesUsageAndSuggestionUnset(t *testing.T) {
	item := testItem(t, "eggs", "12")
	for _, pars := range []ParTable{nil, {}, {"eggs": dec(t, "0")}, {"eggs": dec(t, "30")}} {
		sheet := Sheet{"eggs": {ActualOrder: qty(t, "4")}}
		requireQty(t, "usage", Usage(item, sheet), "")
		requireQty(t, "suggested", SuggestedOrder(item, pars, sheet), "")
	}
}

func TestSuggestedOrderUnsetWithoutPar(t *testing.T) {
	item := testItem(t, "eggs", "12")
	sheet := Sheet{"eggs": {EndingInventory: qty(t, "1")}}
	requireQty(t, "no par", SuggestedOrder(item, ParTable{}, sheet), "")
	requireQty(t, "zero par", SuggestedOrder(item, ParTable{"eggs": decimal.Zero}, sheet), "0")
}

func TestStatusOutWhenNothingOnHand(t *testing.T) {
	item := testItem(t, "lemons", "0")
	for _, pars := range []ParTable{{}, {"lemons": decimal.Zero}, {"lemons": dec(t, "6")}} {
		if got := StatusOf(item, pars, Sheet{}); got != StatusOut {
			t.Fatalf("expected out with no stock, got %s", got)
		}
	}
}

func TestStatusOKWithoutMeaningfulPar(t *testing.T) {
	item := testItem(t, "limes", "0.5")
	for _, pars := range []ParTable{{}, {"limes": decimal.Zero}} {
		if got := StatusOf(item, pars, Sheet{}); got != StatusOK {
			t.Fatalf("expected ok without par, got %s", got)
		}
	}
}

func TestStatusFallsBackToBeginning(t *testing.T) {
	item := testItem(t, "cream", "3")
	pars := ParTable{"cream": dec(t, "4")}
	if got := StatusOf(item, pars, Sheet{}); got != StatusLow {
		t.Fatalf("expected low from beginning inventory, got %s", got)
	}
	sheet := Sheet{"cream": {EndingInventory: qty(t, "9")}}
	if got := StatusOf(item, pars, sheet); got != StatusOK {
		t.Fatalf("expected count to take precedence, got %s", got)
	}
}

func TestNegativeUsageIsFlaggedNotClamped(t *testing.T) {
	item := testItem(t, "syrup", "2")
	sheet := Sheet{"syrup": {EndingInventory: qty(t, "5")}}
	usage := Usage(item, sheet)
	requireQty(t, "usage", usage, "-3")
	if !UsageAnomaly(usage) {
		t.Fatalf("expected negative usage to be flagged")
	}
	line := Derive(item, ParTable{}, sheet)
	if !line.Anomaly {
		t.Fatalf("expected derived line to carry anomaly flag")
	}
	if line.Par.Valid {
		t.Fatalf("expected par unset on derived line")
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		raw      string
		want     string
		accepted bool
	}{
		{"", "", true},
		{"   ", "", true},
		{"0", "0", true},
		{"2.5", "2.5", true},
		{" 7 ", "7", true},
		{"abc", "", false},
		{"NaN", "", false},
		{"Inf", "", false},
		{"-1", "", false},
		{"3x", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseQuantity(tc.raw)
			if ok != tc.accepted {
				t.Fatalf("ParseQuantity(%q) accepted=%v, want %v", tc.raw, ok, tc.accepted)
			}
			if ok {
				requireQty(t, tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusOut, StatusLow, StatusOK} {
		parsed, err := ParseStatus(s.String())
		if err != nil || parsed != s {
			t.Fatalf("round trip %s: got %s, %v", s, parsed, err)
		}
	}
	if _, err := ParseStatus("critical"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if !(StatusOut < StatusLow && StatusLow < StatusOK) {
		t.Fatalf("expected out < low < ok ordering")
	}
}
