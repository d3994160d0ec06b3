package inventory

import (
	"testing"
	"time"
)

func TestWeekOf(t *testing.T) {
	testCases := []struct {
		name  string
		at    time.Time
		id    string
		label string
	}{
		{"midweek", time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), "2026-10-11", "10/11 – 10/17"},
		{"sunday is the first day", time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), "2026-10-11", "10/11 – 10/17"},
		{"saturday night", time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC), "2026-10-11", "10/11 – 10/17"},
		{"spans months", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), "2026-03-01", "3/1 – 3/7"},
		{"spans years", time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), "2025-12-28", "12/28 – 1/3"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := WeekOf(tc.at)
			if w.ID != tc.id {
				t.Fatalf("expected id %s, got %s", tc.id, w.ID)
			}
			if w.Label != tc.label {
				t.Fatalf("expected label %q, got %q", tc.label, w.Label)
			}
			if w.SheetKey() != "wk_"+tc.id {
				t.Fatalf("unexpected sheet key %s", w.SheetKey())
			}
		})
	}
}

func TestWeekOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*60*60)
	// Sunday 03:00 UTC is still Saturday evening six hours west.
	at := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	if got := WeekOf(at).ID; got != "2026-10-18" {
		t.Fatalf("expected UTC week 2026-10-18, got %s", got)
	}
	if got := WeekOf(at.In(loc)).ID; got != "2026-10-11" {
		t.Fatalf("expected local week 2026-10-11, got %s", got)
	}
}

func TestParseWeekIDAndNext(t *testing.T) {
	w, err := ParseWeekID("2026-10-14", time.UTC)
	if err != nil {
		t.Fatalf("parse week id: %v", err)
	}
	if w.ID != "2026-10-11" {
		t.Fatalf("expected normalization to week start, got %s", w.ID)
	}
	if next := w.Next(); next.ID != "2026-10-18" {
		t.Fatalf("expected next week 2026-10-18, got %s", next.ID)
	}
	if _, err := ParseWeekID("10/11/2026", time.UTC); err == nil {
		t.Fatalf("expected error for non-canonical id")
	}
}
