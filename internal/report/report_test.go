package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"parcount/internal/inventory"
)

func fixture(t *testing.T) Export {
	t.Helper()
	week := inventory.WeekOf(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	items := []inventory.Item{
		{ID: "milk", Vendor: "Sysco", Category: "Dairy", Name: "Whole Milk", BeginningInventory: decimal.RequireFromString("10")},
		{ID: "cups", Vendor: "WebstaurantStore", Category: "Paper", Name: "Cups", BeginningInventory: decimal.RequireFromString("2.5")},
	}
	pars := inventory.ParTable{"milk": decimal.RequireFromString("5")}
	sheet := inventory.Sheet{
		"milk": {
			EndingInventory: decimal.NewNullDecimal(decimal.RequireFromString("3")),
			ActualOrder:     decimal.NewNullDecimal(decimal.RequireFromString("4")),
		},
	}
	res := inventory.CloseWeek(week, items, pars, sheet, nil)
	return Export{
		Week:    week,
		Lines:   inventory.ListItems(items, pars, sheet, inventory.Filter{}),
		Orders:  inventory.OrderSummary(items, sheet),
		History: res.History,
	}
}

func TestBuildWorkbookSheets(t *testing.T) {
	f, err := BuildWorkbook(fixture(t))
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 3 || got[0] != SheetCount {
		t.Fatalf("unexpected sheets %v", got)
	}

	rows, err := f.GetRows(SheetCount)
	if err != nil {
		t.Fatalf("read count sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected week, header and 2 item rows, got %d", len(rows))
	}
	if rows[0][1] != "3/8 – 3/14" {
		t.Fatalf("unexpected week label %q", rows[0][1])
	}
	milk := rows[2]
	if milk[2] != "Whole Milk" || milk[4] != "3" || milk[5] != "7" || milk[7] != "2" || milk[9] != "low" {
		t.Fatalf("unexpected milk row %v", milk)
	}
	cups := rows[3]
	if cups[3] != "2.5" || cups[4] != "" {
		t.Fatalf("expected blank ending for uncounted item, got %v", cups)
	}

	orders, err := f.GetRows(SheetOrders)
	if err != nil {
		t.Fatalf("read orders sheet: %v", err)
	}
	if len(orders) != 2 || orders[1][0] != "Sysco" || orders[1][2] != "4" {
		t.Fatalf("unexpected orders %v", orders)
	}

	history, err := f.GetRows(SheetHistory)
	if err != nil {
		t.Fatalf("read history sheet: %v", err)
	}
	if len(history) != 3 || history[1][2] != "Sysco" || history[2][2] != "WebstaurantStore" {
		t.Fatalf("unexpected history rows %v", history)
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "count.xlsx")
	if err := WriteWorkbook(path, fixture(t)); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, err := f.GetSheetIndex(SheetHistory); err != nil || idx < 0 {
		t.Fatalf("expected history sheet, idx=%d err=%v", idx, err)
	}
}

func TestCloseDiff(t *testing.T) {
	exp := fixture(t)
	before := []inventory.Item{exp.Lines[0].Item, exp.Lines[1].Item}
	after := inventory.CloneItems(before)
	after[0].BeginningInventory = decimal.RequireFromString("7")

	text, err := CloseDiff(exp.Week, before, after)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	for _, want := range []string{
		"--- beginning/2026-03-08",
		"+++ beginning/2026-03-15",
		"-Sysco / Whole Milk: 10",
		"+Sysco / Whole Milk: 7",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("diff missing %q:\n%s", want, text)
		}
	}

	same, err := CloseDiff(exp.Week, before, before)
	if err != nil {
		t.Fatalf("diff unchanged: %v", err)
	}
	if same != "" {
		t.Fatalf("expected empty diff, got %q", same)
	}
}
