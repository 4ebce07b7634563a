package timewindow

import (
	"errors"
	"testing"
	"time"
)

func TestSingleDayWindow(t *testing.T) {
	w := New("UTC")
	if w.Degraded() {
		t.Fatal("UTC zone should always load")
	}

	windows, err := w.Windows("2025-10-15", "2025-10-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}

	start := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC).Unix()
	if windows[0].Start != start || windows[0].End != end {
		t.Fatalf("window %+v does not span the day [%d, %d)", windows[0], start, end)
	}
}

func TestWindowsAreContiguous(t *testing.T) {
	w := New("UTC")
	windows, err := w.Windows("2025-10-15", "2025-10-17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		if windows[i-1].End != windows[i].Start {
			t.Fatalf("gap between window %d and %d: %d != %d", i-1, i, windows[i-1].End, windows[i].Start)
		}
	}
	for _, win := range windows {
		if win.End-win.Start != 86400 {
			t.Fatalf("UTC day window should be 86400s, got %d", win.End-win.Start)
		}
	}
}

func TestWindowsAcrossDSTTransition(t *testing.T) {
	w := New("Europe/Amsterdam")
	if w.Degraded() {
		t.Skip("tz database unavailable")
	}

	// CEST -> CET on 2025-10-26; that local day has 25 hours.
	windows, err := w.Windows("2025-10-25", "2025-10-27")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if got := windows[1].End - windows[1].Start; got != 25*3600 {
		t.Fatalf("DST fall-back day should span 25h, got %ds", got)
	}
	for i := 1; i < len(windows); i++ {
		if windows[i-1].End != windows[i].Start {
			t.Fatalf("windows not contiguous across DST boundary")
		}
	}
}

func TestInvalidDateFormat(t *testing.T) {
	w := New("UTC")
	if _, err := w.Windows("15-10-2025", "2025-10-17"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := w.Windows("2025-10-15", "not-a-date"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDegradedFallsBackToUTC(t *testing.T) {
	w := New("No/Such_Zone")
	if !w.Degraded() {
		t.Fatal("unknown zone should flag degraded mode")
	}
	if w.Location() != time.UTC {
		t.Fatalf("degraded windower should use UTC, got %v", w.Location())
	}

	windows, err := w.Windows("2025-01-01", "2025-01-01")
	if err != nil {
		t.Fatalf("degraded windower should still produce windows: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
}

func TestTimestampSeconds(t *testing.T) {
	cases := []struct {
		name   string
		record map[string]any
		want   int64
		ok     bool
	}{
		{"seconds", map[string]any{"timestamp": float64(1760486400)}, 1760486400, true},
		{"milliseconds", map[string]any{"timestamp": float64(1760486400123)}, 1760486400, true},
		{"string", map[string]any{"ts": "1760486400"}, 1760486400, true},
		{"alternate key", map[string]any{"time": 1760486400}, 1760486400, true},
		{"missing", map[string]any{}, 0, false},
		{"unparseable", map[string]any{"timestamp": "soon"}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TimestampSeconds(tc.record)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("TimestampSeconds(%v) = (%d, %t), want (%d, %t)", tc.record, got, ok, tc.want, tc.ok)
			}
		})
	}
}
