package main

import (
	"reflect"
	"testing"
)

func TestExtractWorkspaceFlag(t *testing.T) {
	ws, rest, err := extractWorkspaceFlag([]string{"status", "--workspace", "/tmp/ws", "--vendor", "Sysco"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ws != "/tmp/ws" || !reflect.DeepEqual(rest, []string{"status", "--vendor", "Sysco"}) {
		t.Fatalf("unexpected result %q %v", ws, rest)
	}

	ws, _, err = extractWorkspaceFlag([]string{"--workspace=/srv/counts", "orders"})
	if err != nil || ws != "/srv/counts" {
		t.Fatalf("unexpected inline result %q %v", ws, err)
	}

	if _, _, err := extractWorkspaceFlag([]string{"status", "--workspace"}); err == nil {
		t.Fatalf("expected missing value error")
	}
}

func TestSplitPositional(t *testing.T) {
	cases := []struct {
		name       string
		args       []string
		positional []string
		rest       []string
	}{
		{
			name:       "id first",
			args:       []string{"milk", "--ending", "3"},
			positional: []string{"milk"},
			rest:       []string{"--ending", "3"},
		},
		{
			name:       "id last",
			args:       []string{"--ending", "3", "--order=4", "milk"},
			positional: []string{"milk"},
			rest:       []string{"--ending", "3", "--order=4"},
		},
		{
			name:       "blank value",
			args:       []string{"milk", "--ending", ""},
			positional: []string{"milk"},
			rest:       []string{"--ending", ""},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			positional, rest, err := splitPositional("count", tc.args, 1, "<item-id>")
			if err != nil {
				t.Fatalf("split: %v", err)
			}
			if !reflect.DeepEqual(positional, tc.positional) || !reflect.DeepEqual(rest, tc.rest) {
				t.Fatalf("got %v %v", positional, rest)
			}
		})
	}

	if _, _, err := splitPositional("count", []string{"--ending", "3"}, 1, "<item-id>"); err == nil {
		t.Fatalf("expected usage error without item id")
	}
}
