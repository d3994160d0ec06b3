package notify

import (
	"errors"
	"strings"
	"testing"
)

func TestSendDisabledIsNoop(t *testing.T) {
	called := false
	n := &Notifier{run: func(string, ...string) error {
		called = true
		return nil
	}}
	if err := n.Send("t", "m"); err != nil || called {
		t.Fatalf("disabled notifier should not run, err=%v called=%v", err, called)
	}
	var nilNotifier *Notifier
	if err := nilNotifier.Send("t", "m"); err != nil {
		t.Fatalf("nil notifier should be a no-op: %v", err)
	}
}

func TestSendEscapesQuotes(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := &Notifier{Enabled: true, run: func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}
	if err := n.Send(`Say "hi"`, `3 "items"`); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotName != "osascript" || len(gotArgs) != 2 {
		t.Fatalf("unexpected command %s %v", gotName, gotArgs)
	}
	if !strings.Contains(gotArgs[1], `Say \"hi\"`) || !strings.Contains(gotArgs[1], `3 \"items\"`) {
		t.Fatalf("quotes not escaped: %s", gotArgs[1])
	}

	n.run = func(string, ...string) error { return errors.New("boom") }
	if err := n.Send("t", "m"); err == nil {
		t.Fatalf("expected command failure to surface")
	}
}

func TestFormatters(t *testing.T) {
	if _, msg := FormatAttention("3/8 – 3/14", 1); msg != "Week 3/8 – 3/14: 1 item needs attention" {
		t.Fatalf("unexpected message %q", msg)
	}
	if _, msg := FormatAttention("3/8 – 3/14", 0); !strings.Contains(msg, "nothing needs attention") {
		t.Fatalf("unexpected message %q", msg)
	}
	if title, msg := FormatWeekClosed("3/8 – 3/14", 3, 2); title != "parcount: week closed" || !strings.Contains(msg, "3 items, 2 ordered") {
		t.Fatalf("unexpected close notification %q %q", title, msg)
	}
}
