package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"parcount/internal/catalog"
	"parcount/internal/inventory"
	"parcount/internal/notify"
	"parcount/internal/report"
	"parcount/internal/tracker"
)

func runClose(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	yes := fs.Bool("yes", false, "Close without asking for confirmation")
	dryRun := fs.Bool("dry-run", false, "Show the beginning inventory changes without closing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withTracker(workspacePath, "close", func(ctx context.Context, s *session) error {
		preview, err := s.tracker.PreviewClose()
		if err != nil {
			return setupHint(err)
		}
		week := s.tracker.Week()
		diff, err := report.CloseDiff(week, s.tracker.Items(), preview.Items)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Closing week %s: %d items, %d ordered\n", week.Label, len(preview.Entry.Data), preview.Entry.OrderedCount())
		if diff == "" {
			fmt.Fprintln(os.Stdout, "Beginning inventory unchanged.")
		} else {
			fmt.Fprint(os.Stdout, diff)
		}
		if *dryRun {
			return nil
		}
		if !*yes {
			return fmt.Errorf("%s close: closing archives the week and clears the sheet; re-run with --yes", appName)
		}

		return s.audited("week_close", nil, func() error {
			entry, err := s.tracker.CloseWeek(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Closed week %s. History holds %d weeks.\n", entry.Label, len(s.tracker.History()))
			s.sendNotification(notify.FormatWeekClosed(entry.Label, len(entry.Data), entry.OrderedCount()))
			return nil
		})
	})
}

func runHistory(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 10, "Number of weeks to show")
	weekID := fs.String("week", "", "Show item detail for one closed week (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withTracker(workspacePath, "history", func(ctx context.Context, s *session) error {
		if !s.tracker.Ready() {
			return setupHint(tracker.ErrSetupRequired)
		}
		history := s.tracker.History()
		if *weekID != "" {
			for _, entry := range history {
				if entry.Week == *weekID {
					printHistoryEntry(entry)
					return nil
				}
			}
			return fmt.Errorf("no closed week %s", *weekID)
		}

		if len(history) == 0 {
			fmt.Fprintln(os.Stdout, "No closed weeks.")
			return nil
		}
		for i, entry := range history {
			if *limit > 0 && i >= *limit {
				break
			}
			fmt.Fprintf(os.Stdout, "%s  %s  %d items, %d ordered\n", entry.Week, entry.Label, len(entry.Data), entry.OrderedCount())
		}
		return nil
	})
}

func printHistoryEntry(entry inventory.HistoryEntry) {
	fmt.Fprintf(os.Stdout, "Week %s\n", entry.Label)
	ids := make([]string, 0, len(entry.Data))
	for id := range entry.Data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		ra, rb := entry.Data[ids[a]], entry.Data[ids[b]]
		if ra.Vendor != rb.Vendor {
			return ra.Vendor < rb.Vendor
		}
		return ra.Name < rb.Name
	})
	for _, id := range ids {
		row := entry.Data[id]
		fmt.Fprintf(os.Stdout, "  %s / %s: begin %s end %s usage %s suggested %s ordered %s\n",
			row.Vendor, row.Name,
			row.Beginning.String(),
			row.Ending.String(),
			inventory.FormatQuantity(row.Usage, "-"),
			inventory.FormatQuantity(row.Suggested, "-"),
			row.ActualOrder.String(),
		)
	}
}

func runExport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	out := fs.String("out", "", "Output path (default: exports/parcount-<week>.xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withTracker(workspacePath, "export", func(ctx context.Context, s *session) error {
		lines, err := s.tracker.Lines(inventory.Filter{})
		if err != nil {
			return setupHint(err)
		}
		orders, err := s.tracker.OrderSummary()
		if err != nil {
			return err
		}
		week := s.tracker.Week()

		path := filepath.Join(s.ws.ExportsDir, fmt.Sprintf("parcount-%s.xlsx", week.ID))
		if *out != "" {
			path, err = s.ws.ResolvePath(*out)
			if err != nil {
				return fmt.Errorf("resolve --out: %w", err)
			}
		}

		exp := report.Export{
			Week:    week,
			Lines:   lines,
			Orders:  orders,
			History: s.tracker.History(),
		}
		return s.audited("export", map[string]any{"path": path}, func() error {
			if err := report.WriteWorkbook(path, exp); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
			return nil
		})
	})
}

func runCatalog(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	out := fs.String("out", "", "Write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withTracker(workspacePath, "catalog", func(ctx context.Context, s *session) error {
		if !s.tracker.Ready() {
			return setupHint(tracker.ErrSetupRequired)
		}
		items, pars := s.tracker.Items(), s.tracker.Pars()
		if *out == "" {
			data, err := catalog.MarshalSeed(items, pars)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}
		path, err := s.ws.ResolvePath(*out)
		if err != nil {
			return fmt.Errorf("resolve --out: %w", err)
		}
		if err := catalog.WriteSeed(path, items, pars); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
		return nil
	})
}

func runReset(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	confirm := fs.Bool("i-understand", false, "Confirm that all stored data will be erased")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*confirm {
		return fmt.Errorf("%s reset: this erases the catalog, counts and history; re-run with --i-understand", appName)
	}

	return withTracker(workspacePath, "reset", func(ctx context.Context, s *session) error {
		return s.audited("reset", nil, func() error {
			if err := s.tracker.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "All data erased.")
			return nil
		})
	})
}

func runLog(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 20, "Number of events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withTracker(workspacePath, "log", func(ctx context.Context, s *session) error {
		events, err := s.audit.Recent(*limit)
		if err != nil {
			return err
		}
		for _, ev := range events {
			week := ev.Week
			if week == "" {
				week = "-"
			}
			fmt.Fprintf(os.Stdout, "%s  %-8s %-24s week=%s %s\n",
				ev.Timestamp.Local().Format(time.RFC3339), ev.Actor, ev.Type, week, ev.PayloadJSON)
		}
		return nil
	})
}
