package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"parcount/internal/inventory"
)

const (
	SheetCount   = "Count"
	SheetOrders  = "Orders"
	SheetHistory = "History"
)

// Export is everything written to a workbook.
type Export struct {
	Week    inventory.Week
	Lines   []inventory.Line
	Orders  []inventory.VendorOrders
	History []inventory.HistoryEntry
}

// BuildWorkbook lays out the current count sheet, this week's orders and the
// archived history on separate worksheets. Unset quantities are left blank.
func BuildWorkbook(exp Export) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCount); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetOrders, SheetHistory} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetCount, countRows(exp)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRows(f, SheetOrders, orderRows(exp.Orders)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRows(f, SheetHistory, historyRows(exp.History)); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook builds the workbook and saves it to path.
func WriteWorkbook(path string, exp Export) error {
	f, err := BuildWorkbook(exp)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func countRows(exp Export) [][]interface{} {
	rows := [][]interface{}{
		{"Week", exp.Week.Label},
		{"Vendor", "Category", "Item", "Beginning", "Ending", "Usage", "Par", "Suggested", "Actual Order", "Status"},
	}
	for _, line := range exp.Lines {
		rows = append(rows, []interface{}{
			line.Item.Vendor,
			line.Item.Category,
			line.Item.Name,
			number(line.Item.BeginningInventory),
			optional(line.Ending),
			optional(line.Usage),
			optional(line.Par),
			optional(line.Suggested),
			optional(line.ActualOrder),
			line.Status.String(),
		})
	}
	return rows
}

func orderRows(orders []inventory.VendorOrders) [][]interface{} {
	rows := [][]interface{}{{"Vendor", "Item", "Quantity"}}
	for _, vendor := range orders {
		for _, line := range vendor.Lines {
			rows = append(rows, []interface{}{vendor.Vendor, line.Item.Name, number(line.Quantity)})
		}
	}
	return rows
}

func historyRows(history []inventory.HistoryEntry) [][]interface{} {
	rows := [][]interface{}{{"Week", "Label", "Vendor", "Item", "Beginning", "Ending", "Usage", "Suggested", "Actual Order"}}
	for _, entry := range history {
		ids := make([]string, 0, len(entry.Data))
		for id := range entry.Data {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool {
			ra, rb := entry.Data[ids[a]], entry.Data[ids[b]]
			if ra.Vendor != rb.Vendor {
				return ra.Vendor < rb.Vendor
			}
			if ra.Name != rb.Name {
				return ra.Name < rb.Name
			}
			return ids[a] < ids[b]
		})
		for _, id := range ids {
			row := entry.Data[id]
			rows = append(rows, []interface{}{
				entry.Week,
				entry.Label,
				row.Vendor,
				row.Name,
				number(row.Beginning),
				number(row.Ending),
				optional(row.Usage),
				optional(row.Suggested),
				number(row.ActualOrder),
			})
		}
	}
	return rows
}

func number(d decimal.Decimal) interface{} {
	return d.InexactFloat64()
}

func optional(q decimal.NullDecimal) interface{} {
	if !q.Valid {
		return nil
	}
	return number(q.Decimal)
}
