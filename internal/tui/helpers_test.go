package tui

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatTime(tc.t); got != tc.want {
				t.Errorf("formatTime = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncStr("hello world", 8); got != "hello w…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("héllo wörld", 8); got != "héllo w…" {
		t.Errorf("truncStr with multibyte = %q", got)
	}
	if got := truncStr("hello", 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Errorf("padRight truncates = %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd"
	if got := truncateToHeight(s, 2); got != "a\nb" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("truncateToHeight should not change short input, got %q", got)
	}
	if got := truncateToHeight(s, 0); got != "" {
		t.Errorf("zero height = %q", got)
	}
}
