package timewindow

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate marks date strings that do not parse as YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date format")

// Window is a half-open [Start, End) interval in UTC epoch seconds.
type Window struct {
	Start int64
	End   int64
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts int64) bool {
	return ts >= w.Start && ts < w.End
}

// Windower converts local calendar dates into UTC epoch windows.
type Windower struct {
	loc      *time.Location
	degraded bool
}

// New builds a Windower for the named IANA time zone. When the zone database
// is unavailable the windower falls back to UTC; callers can detect the
// approximation via Degraded.
func New(tzName string) *Windower {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return &Windower{loc: time.UTC, degraded: true}
	}
	return &Windower{loc: loc}
}

// Degraded reports whether local time is being treated as UTC because the
// configured zone could not be loaded.
func (w *Windower) Degraded() bool {
	return w.degraded
}

// Location returns the resolved time zone.
func (w *Windower) Location() *time.Location {
	return w.loc
}

// Windows returns one half-open UTC interval per local calendar day from
// fromDate 00:00 local through the day after toDate 00:00 local (exclusive).
// Midnight boundaries are converted per-day so DST transitions land on the
// correct offset.
func (w *Windower) Windows(fromDate, toDate string) ([]Window, error) {
	start, err := w.parseLocalDate(fromDate)
	if err != nil {
		return nil, err
	}
	endExcl, err := w.parseLocalDate(toDate)
	if err != nil {
		return nil, err
	}
	endExcl = endExcl.AddDate(0, 0, 1)

	var out []Window
	for cur := start; cur.Before(endExcl); {
		next := cur.AddDate(0, 0, 1)
		if next.After(endExcl) {
			next = endExcl
		}
		out = append(out, Window{Start: cur.Unix(), End: next.Unix()})
		cur = next
	}
	return out, nil
}

func (w *Windower) parseLocalDate(d string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, d, w.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, d)
	}
	return t, nil
}

// InAny reports whether ts falls inside any of the given windows.
func InAny(ts int64, windows []Window) bool {
	for _, win := range windows {
		if win.Contains(ts) {
			return true
		}
	}
	return false
}
