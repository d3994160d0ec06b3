package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const appName = "parcount"

func main() {
	flag.String("workspace", "", "Path to workspace root (default: $PARCOUNT_WORKSPACE)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: weekly inventory counts and reorders\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init      Initialize a workspace and optionally complete setup from a seed")
		fmt.Fprintln(os.Stderr, "  status    Show the current week's count sheet")
		fmt.Fprintln(os.Stderr, "  count     Record ending inventory and actual order for an item")
		fmt.Fprintln(os.Stderr, "  par       Set or clear an item's par level")
		fmt.Fprintln(os.Stderr, "  begin     Override an item's beginning inventory")
		fmt.Fprintln(os.Stderr, "  item      Manage catalog items")
		fmt.Fprintln(os.Stderr, "  vendors   List vendors")
		fmt.Fprintln(os.Stderr, "  orders    Show this week's orders grouped by vendor")
		fmt.Fprintln(os.Stderr, "  close     Close the week and roll inventory forward")
		fmt.Fprintln(os.Stderr, "  history   Show closed weeks")
		fmt.Fprintln(os.Stderr, "  export    Write an XLSX workbook")
		fmt.Fprintln(os.Stderr, "  catalog   Write the catalog in seed format")
		fmt.Fprintln(os.Stderr, "  theme     Show or set the display theme")
		fmt.Fprintln(os.Stderr, "  reset     Erase all stored data")
		fmt.Fprintln(os.Stderr, "  log       Show recent audit events")
		fmt.Fprintln(os.Stderr, "  help      Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if workspacePath == "" {
		workspacePath = os.Getenv("PARCOUNT_WORKSPACE")
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	commands := map[string]func([]string, string) error{
		"init":    runInit,
		"status":  runStatus,
		"count":   runCount,
		"par":     runPar,
		"begin":   runBegin,
		"item":    runItem,
		"vendors": runVendors,
		"orders":  runOrders,
		"close":   runClose,
		"history": runHistory,
		"export":  runExport,
		"catalog": runCatalog,
		"theme":   runTheme,
		"reset":   runReset,
		"log":     runLog,
	}
	run, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[1:], workspacePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

// splitPositional pulls n positional arguments out of args so flags may come
// before or after them. Flags of such commands always take a value.
func splitPositional(command string, args []string, n int, usage string) ([]string, []string, error) {
	var positional []string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			rest = append(rest, arg)
			if !strings.Contains(arg, "=") && i+1 < len(args) {
				rest = append(rest, args[i+1])
				i++
			}
			continue
		}
		if len(positional) < n {
			positional = append(positional, arg)
			continue
		}
		rest = append(rest, arg)
	}
	if len(positional) < n {
		return nil, nil, fmt.Errorf("%s %s: usage: %s %s %s", appName, command, appName, command, usage)
	}
	return positional, rest, nil
}

func writeFileIfMissing(path string, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
