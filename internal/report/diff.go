package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"parcount/internal/inventory"
)

// CloseDiff renders the beginning inventory change a week close would make
// as a unified diff. It returns "" when nothing changes.
func CloseDiff(week inventory.Week, before, after []inventory.Item) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        beginningLines(before),
		B:        beginningLines(after),
		FromFile: "beginning/" + week.ID,
		ToFile:   "beginning/" + week.Next().ID,
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff close %s: %w", week.ID, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}

func beginningLines(items []inventory.Item) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s / %s: %s\n", item.Vendor, item.Name, item.BeginningInventory.String()))
	}
	return lines
}
