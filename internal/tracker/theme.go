package tracker

import (
	"fmt"
	"strings"
)

// Theme is the stored display preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (th Theme) Valid() bool {
	return th == ThemeDark || th == ThemeLight
}

// ParseTheme accepts "dark" or "light".
func ParseTheme(value string) (Theme, error) {
	th := Theme(strings.ToLower(strings.TrimSpace(value)))
	if !th.Valid() {
		return "", fmt.Errorf("unknown theme %q", value)
	}
	return th, nil
}

// Theme returns the display preference. It is available before setup.
func (t *Tracker) Theme() Theme {
	var th Theme
	t.view(func(s *state) { th = s.theme })
	return th
}

// SetTheme stores the display preference.
func (t *Tracker) SetTheme(th Theme) error {
	if !th.Valid() {
		return fmt.Errorf("unknown theme %q", th)
	}
	return t.update(false, func(s *state) ([]string, error) {
		s.theme = th
		return []string{keyTheme}, nil
	})
}
