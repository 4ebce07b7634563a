package app

import (
	"fmt"
	"os"
	"time"
)

// Windows prints the UTC day windows a date range resolves to, as a
// diagnostic for checking time-zone and DST behaviour.
func (a *App) Windows(fromDate, toDate string) error {
	windower := a.newWindower()
	if windower.Degraded() {
		a.Logger.Warn().Msg("time zone database unavailable, treating local dates as UTC")
	}

	windows, err := windower.Windows(fromDate, toDate)
	if err != nil {
		return err
	}

	for i, w := range windows {
		fmt.Fprintf(os.Stdout, "Window %d: UTC %d -> %d | %s -> %s\n",
			i+1, w.Start, w.End,
			time.Unix(w.Start, 0).UTC().Format(time.RFC3339),
			time.Unix(w.End, 0).UTC().Format(time.RFC3339),
		)
	}
	return nil
}
