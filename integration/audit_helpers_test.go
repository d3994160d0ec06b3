package integration_test

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"parcount/internal/inventory"
)

// auditRow is one events row as the CLI and tracker write it.
type auditRow struct {
	Actor string
	Type  string
	Week  string
}

func loadAuditRows(t *testing.T, dbPath string) []auditRow {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open audit db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.Query("SELECT actor, type, COALESCE(week, '') FROM events ORDER BY id")
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []auditRow
	for rows.Next() {
		var row auditRow
		if err := rows.Scan(&row.Actor, &row.Type, &row.Week); err != nil {
			t.Fatalf("scan audit event: %v", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate audit events: %v", err)
	}
	return out
}

func requireAuditEvents(t *testing.T, dbPath string, want []string) {
	t.Helper()
	seen := make(map[string]bool)
	for _, row := range loadAuditRows(t, dbPath) {
		seen[row.Type] = true
	}
	for _, eventType := range want {
		if !seen[eventType] {
			t.Fatalf("missing audit event %s in %s", eventType, dbPath)
		}
	}
}

// requireTrackerWeek checks that every tracker event of the given types is
// stamped with the week setup started in, and returns that week id.
func requireTrackerWeek(t *testing.T, dbPath string, types ...string) string {
	t.Helper()
	rows := loadAuditRows(t, dbPath)

	week := ""
	for _, row := range rows {
		if row.Type == "setup_completed" {
			week = row.Week
			break
		}
	}
	parsed, err := inventory.ParseWeekID(week, time.UTC)
	if err != nil {
		t.Fatalf("setup_completed week %q: %v", week, err)
	}
	if parsed.Start.Weekday() != time.Sunday {
		t.Fatalf("week %s does not start on a Sunday", week)
	}

	for _, eventType := range types {
		found := false
		for _, row := range rows {
			if row.Type != eventType {
				continue
			}
			found = true
			if row.Actor != "tracker" || row.Week != week {
				t.Fatalf("%s recorded as %+v, want tracker event for week %s", eventType, row, week)
			}
		}
		if !found {
			t.Fatalf("missing tracker event %s in %s", eventType, dbPath)
		}
	}
	return week
}
