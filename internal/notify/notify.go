package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Notifier sends system notifications.
type Notifier struct {
	Enabled bool
	// run executes the platform command; nil uses exec.
	run func(name string, args ...string) error
}

// New returns a notifier that is a no-op unless enabled.
func New(enabled bool) *Notifier {
	return &Notifier{Enabled: enabled}
}

// Send sends a system notification.
// On macOS, uses osascript to display notifications.
// On other platforms, this is a no-op.
func (n *Notifier) Send(title, message string) error {
	if n == nil || !n.Enabled {
		return nil
	}
	if runtime.GOOS != "darwin" && n.run == nil {
		return nil
	}

	run := n.run
	if run == nil {
		run = func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		}
	}
	if err := run("osascript", "-e", script(title, message)); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func script(title, message string) string {
	title = strings.ReplaceAll(title, `"`, `\"`)
	message = strings.ReplaceAll(message, `"`, `\"`)
	return fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
}

// FormatAttention formats the count of low or out items for a week.
func FormatAttention(weekLabel string, attention int) (title, message string) {
	if attention == 0 {
		return "parcount: stock OK", fmt.Sprintf("Week %s: nothing needs attention", weekLabel)
	}
	noun := "items need"
	if attention == 1 {
		noun = "item needs"
	}
	return "parcount: reorder check", fmt.Sprintf("Week %s: %d %s attention", weekLabel, attention, noun)
}

// FormatWeekClosed formats a week close confirmation.
func FormatWeekClosed(weekLabel string, items, ordered int) (title, message string) {
	return "parcount: week closed", fmt.Sprintf("Week %s archived: %d items, %d ordered", weekLabel, items, ordered)
}
