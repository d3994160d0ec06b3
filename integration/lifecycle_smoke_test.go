package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parcount/integration/harness"
)

const seedCatalog = `items:
  - id: milk
    vendor: Sysco
    category: Dairy
    name: Whole Milk
    beginning: 10
    par: 5
  - id: eggs
    vendor: Sysco
    category: Dairy
    name: Eggs
    beginning: 6
  - id: cups
    vendor: WebstaurantStore
    category: Paper
    name: Cups
    par: 100
`

func TestWeeklyLifecycleSmoke(t *testing.T) {
	workspaceRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspaceRoot, "seed.yml"), []byte(seedCatalog), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	cli := harness.NewCLI(t, workspaceRoot)
	cli.Env["PARCOUNT_TZ"] = "UTC"

	cli.MustRun(t, "init", "--seed", "seed.yml")

	res := cli.MustRun(t, "status")
	if !strings.Contains(res.Stdout, "(1 need attention)") {
		t.Fatalf("expected cups to need attention:\n%s", res.Stdout)
	}

	cli.MustRun(t, "count", "milk", "--ending", "3", "--order", "4")
	cli.MustRun(t, "count", "--order", "2", "eggs")

	res = cli.Run(t, "count", "milk", "--ending", "abc")
	if res.Code == 0 {
		t.Fatalf("non-numeric count should be rejected")
	}

	res = cli.MustRun(t, "status", "--status", "low")
	if !strings.Contains(res.Stdout, "Whole Milk") || strings.Contains(res.Stdout, "Eggs") {
		t.Fatalf("expected only milk to be low:\n%s", res.Stdout)
	}

	res = cli.MustRun(t, "orders")
	if !strings.Contains(res.Stdout, "2 items") || !strings.Contains(res.Stdout, "4 x Whole Milk") {
		t.Fatalf("unexpected orders output:\n%s", res.Stdout)
	}

	res = cli.Run(t, "close")
	if res.Code == 0 {
		t.Fatalf("close without --yes should not close")
	}
	if !strings.Contains(res.Stdout, "+Sysco / Whole Milk: 7") {
		t.Fatalf("expected close preview diff:\n%s", res.Stdout)
	}

	cli.MustRun(t, "close", "--yes")

	res = cli.MustRun(t, "history")
	if !strings.Contains(res.Stdout, "3 items, 2 ordered") {
		t.Fatalf("unexpected history output:\n%s", res.Stdout)
	}

	res = cli.MustRun(t, "item", "add", "--vendor", "Sysco", "--name", "Butter")
	if !strings.Contains(res.Stdout, "Sysco / Butter (Other)") {
		t.Fatalf("unexpected item add output:\n%s", res.Stdout)
	}

	res = cli.MustRun(t, "catalog")
	for _, want := range []string{"id: milk", "beginning: 7", "beginning: 8"} {
		if !strings.Contains(res.Stdout, want) {
			t.Fatalf("catalog missing %q:\n%s", want, res.Stdout)
		}
	}

	exportPath := filepath.Join(workspaceRoot, "exports", "week.xlsx")
	cli.MustRun(t, "export", "--out", "exports/week.xlsx")
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("export not written: %v", err)
	}

	res = cli.MustRun(t, "log", "--limit", "50")
	if !strings.Contains(res.Stdout, "week_closed") {
		t.Fatalf("expected week_closed in audit log:\n%s", res.Stdout)
	}

	auditPath := filepath.Join(workspaceRoot, "audit", "audit.sqlite")
	requireAuditEvents(t, auditPath, []string{
		"week_close_started",
		"week_close_finished",
		"export_finished",
	})
	week := requireTrackerWeek(t, auditPath, "setup_completed", "week_closed", "item_added")

	res = cli.MustRun(t, "history", "--week", week)
	if !strings.Contains(res.Stdout, "Whole Milk") {
		t.Fatalf("expected milk in closed week %s:\n%s", week, res.Stdout)
	}
}

func TestResetSmoke(t *testing.T) {
	workspaceRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspaceRoot, "seed.yml"), []byte(seedCatalog), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	cli := harness.NewCLI(t, workspaceRoot)
	cli.MustRun(t, "init", "--seed", "seed.yml")
	cli.MustRun(t, "theme", "light")

	if res := cli.Run(t, "reset"); res.Code == 0 {
		t.Fatalf("reset without confirmation should fail")
	}
	cli.MustRun(t, "reset", "--i-understand")

	if res := cli.Run(t, "status"); res.Code == 0 {
		t.Fatalf("status after reset should require setup")
	}
	res := cli.MustRun(t, "theme")
	if strings.TrimSpace(res.Stdout) != "dark" {
		t.Fatalf("expected default theme after reset, got %q", res.Stdout)
	}
	requireAuditEvents(t, filepath.Join(workspaceRoot, "audit", "audit.sqlite"), []string{"reset_started", "reset", "reset_finished"})
}
