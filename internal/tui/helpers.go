package tui

import (
	"fmt"
	"time"
)

// formatTime renders a timestamp as a coarse relative age.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr trims s to max runes, appending an ellipsis when it was cut.
func truncStr(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// padRight pads s with spaces to width w, truncating when longer.
func padRight(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return truncStr(s, w)
	}
	out := make([]rune, w)
	copy(out, r)
	for i := len(r); i < w; i++ {
		out[i] = ' '
	}
	return string(out)
}
