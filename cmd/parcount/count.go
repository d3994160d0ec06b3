package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"parcount/internal/catalog"
	"parcount/internal/inventory"
	"parcount/internal/notify"
	"parcount/internal/tracker"
	"parcount/internal/workspace"
)

const envTemplate = `# parcount configuration. Environment variables override these values.
# PARCOUNT_STORE=sqlite
# PARCOUNT_REDIS_ADDR=localhost:6379
# PARCOUNT_DEBOUNCE=300ms
# PARCOUNT_TZ=America/Chicago
# PARCOUNT_LOG_LEVEL=warn
# PARCOUNT_LOG_FORMAT=text
# PARCOUNT_NOTIFY=false
`

const sampleCatalogTemplate = `items:
  - vendor: Sysco
    category: Dairy
    name: Whole Milk
    beginning: 0
    par: 6
  - vendor: WebstaurantStore
    category: Paper
    name: 16oz Cups
    beginning: 0
    par: 200
`

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	seedPath := fs.String("seed", "", "YAML catalog to complete setup with")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(workspacePath) == "" {
		return fmt.Errorf("--workspace is required")
	}

	root, err := workspace.ResolveRoot(workspacePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := writeFileIfMissing(ws.EnvPath, envTemplate); err != nil {
		return err
	}
	if err := writeFileIfMissing(filepath.Join(ws.Root, "catalog.yml"), sampleCatalogTemplate); err != nil {
		return err
	}

	ctx := context.Background()
	s, err := openSessionIn(ctx, ws, "init")
	if err != nil {
		return err
	}
	defer s.Close()

	return s.audited("workspace_init", map[string]any{"seed": *seedPath}, func() error {
		fmt.Fprintf(os.Stdout, "Initialized workspace: %s\n", ws.Root)
		if *seedPath == "" {
			if s.tracker.Ready() {
				fmt.Fprintln(os.Stdout, "Setup already completed.")
				return nil
			}
			fmt.Fprintln(os.Stdout, "Next steps:")
			fmt.Fprintf(os.Stdout, "  edit %s\n", filepath.Join(ws.Root, "catalog.yml"))
			fmt.Fprintf(os.Stdout, "  %s init --workspace %s --seed catalog.yml\n", appName, ws.Root)
			return nil
		}

		path, err := ws.ResolvePath(*seedPath)
		if err != nil {
			return fmt.Errorf("resolve --seed: %w", err)
		}
		seed, err := catalog.LoadSeed(path)
		if err != nil {
			return err
		}
		if err := s.tracker.CompleteSetup(seed.Items, seed.Pars); err != nil {
			return err
		}
		week := s.tracker.Week()
		fmt.Fprintf(os.Stdout, "Setup complete: %d items, tracking week %s\n", len(seed.Items), week.Label)
		return nil
	})
}

func runStatus(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	vendor := fs.String("vendor", "", "Only show items from this vendor")
	search := fs.String("search", "", "Only show items whose name contains this text")
	status := fs.String("status", "", "Only show items with this status (out, low, ok)")
	grouped := fs.Bool("group", false, "Group items by vendor")
	notifyFlag := fs.Bool("notify", false, "Send a desktop notification with the attention count")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := inventory.Filter{Vendor: *vendor, Search: *search}
	if *status != "" {
		st, err := inventory.ParseStatus(*status)
		if err != nil {
			return err
		}
		filter.Status = &st
	}

	return withTracker(workspacePath, "status", func(ctx context.Context, s *session) error {
		lines, err := s.tracker.Lines(filter)
		if err != nil {
			return setupHint(err)
		}
		attention, err := s.tracker.AttentionCount()
		if err != nil {
			return err
		}

		week := s.tracker.Week()
		fmt.Fprintf(os.Stdout, "Week %s (%d need attention)\n", week.Label, attention)
		if *notifyFlag {
			s.notify.Enabled = true
			s.sendNotification(notify.FormatAttention(week.Label, attention))
		}
		if len(lines) == 0 {
			fmt.Fprintln(os.Stdout, "No matching items.")
			return nil
		}
		if !*grouped {
			printLines(lines)
			return nil
		}
		for _, group := range inventory.GroupByVendor(lines) {
			fmt.Fprintf(os.Stdout, "\n%s\n", group.Vendor)
			printLines(group.Lines)
		}
		return nil
	})
}

func printLines(lines []inventory.Line) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVENDOR\tITEM\tBEGIN\tEND\tUSAGE\tPAR\tSUGGEST\tORDER\tSTATUS")
	for _, line := range lines {
		usage := inventory.FormatQuantity(line.Usage, "-")
		if line.Anomaly {
			usage += "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			line.Item.ID,
			line.Item.Vendor,
			line.Item.Name,
			line.Item.BeginningInventory.String(),
			inventory.FormatQuantity(line.Ending, "-"),
			usage,
			inventory.FormatQuantity(line.Par, "-"),
			inventory.FormatQuantity(line.Suggested, "-"),
			inventory.FormatQuantity(line.ActualOrder, "-"),
			line.Status,
		)
	}
	_ = tw.Flush()
}

func runCount(args []string, workspacePath string) error {
	positional, rest, err := splitPositional("count", args, 1, "<item-id> [--ending N] [--order N]")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	ending := fs.String("ending", "", "Counted ending inventory (blank clears)")
	order := fs.String("order", "", "Quantity actually ordered (blank clears)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s count: unexpected arguments %v", appName, fs.Args())
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return fmt.Errorf("%s count: --ending or --order is required", appName)
	}

	id := positional[0]
	return withTracker(workspacePath, "count", func(ctx context.Context, s *session) error {
		if set["ending"] {
			if err := applyEdit(s, tracker.FieldEnding, id, *ending); err != nil {
				return err
			}
		}
		if set["order"] {
			if err := applyEdit(s, tracker.FieldOrder, id, *order); err != nil {
				return err
			}
		}
		return printLine(s, id)
	})
}

func runPar(args []string, workspacePath string) error {
	return runSingleEdit("par", tracker.FieldPar, args, workspacePath)
}

func runBegin(args []string, workspacePath string) error {
	return runSingleEdit("begin", tracker.FieldBeginning, args, workspacePath)
}

func runSingleEdit(command string, field tracker.Field, args []string, workspacePath string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%s %s: usage: %s %s <item-id> [VALUE]", appName, command, appName, command)
	}
	id := args[0]
	raw := ""
	if len(args) == 2 {
		raw = args[1]
	}
	return withTracker(workspacePath, command, func(ctx context.Context, s *session) error {
		if err := applyEdit(s, field, id, raw); err != nil {
			return err
		}
		return printLine(s, id)
	})
}

func applyEdit(s *session, field tracker.Field, id, raw string) error {
	accepted, err := s.tracker.Edit(field, id, raw)
	if err != nil {
		return setupHint(err)
	}
	if !accepted {
		return fmt.Errorf("%s: %q is not a non-negative number", field, raw)
	}
	return nil
}

func printLine(s *session, id string) error {
	line, err := s.tracker.Line(id)
	if err != nil {
		return err
	}
	printLines([]inventory.Line{line})
	return nil
}

func runItem(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s item: missing subcommand", appName)
	}

	switch args[0] {
	case "add":
		return runItemAdd(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s item: unknown subcommand %q", appName, args[0])
	}
}

func runItemAdd(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("item add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	vendor := fs.String("vendor", "", "Vendor name")
	name := fs.String("name", "", "Item name")
	category := fs.String("category", "", "Category (default: Other)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withTracker(workspacePath, "item add", func(ctx context.Context, s *session) error {
		item, err := s.tracker.AddItem(inventory.NewItem{Vendor: *vendor, Name: *name, Category: *category})
		if err != nil {
			return setupHint(err)
		}
		fmt.Fprintf(os.Stdout, "Added %s: %s / %s (%s)\n", item.ID, item.Vendor, item.Name, item.Category)
		return nil
	})
}

func runVendors(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("vendors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withTracker(workspacePath, "vendors", func(ctx context.Context, s *session) error {
		if !s.tracker.Ready() {
			return setupHint(tracker.ErrSetupRequired)
		}
		for _, v := range s.tracker.Vendors() {
			fmt.Fprintln(os.Stdout, v)
		}
		return nil
	})
}

func runOrders(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withTracker(workspacePath, "orders", func(ctx context.Context, s *session) error {
		summary, err := s.tracker.OrderSummary()
		if err != nil {
			return setupHint(err)
		}
		fmt.Fprintf(os.Stdout, "Orders for %s: %d items\n", s.tracker.Week().Label, inventory.OrderCount(summary))
		for _, vendor := range summary {
			fmt.Fprintf(os.Stdout, "\n%s\n", vendor.Vendor)
			for _, line := range vendor.Lines {
				fmt.Fprintf(os.Stdout, "  %s x %s\n", line.Quantity.String(), line.Item.Name)
			}
		}
		return nil
	})
}

func runTheme(args []string, workspacePath string) error {
	if len(args) > 1 {
		return fmt.Errorf("%s theme: usage: %s theme [dark|light]", appName, appName)
	}
	return withTracker(workspacePath, "theme", func(ctx context.Context, s *session) error {
		if len(args) == 1 {
			th, err := tracker.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := s.tracker.SetTheme(th); err != nil {
				return err
			}
		}
		fmt.Fprintln(os.Stdout, s.tracker.Theme())
		return nil
	})
}
