// Package display holds the text shared by the terminal renderers and the
// list command: column headers, cell formatting and status lines.
package display

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/unklstewy/vatsim-online/internal/monitor"
	"github.com/unklstewy/vatsim-online/pkg/coordinates"
)

// Instructions is the key help shown by the interactive renderers.
const Instructions = "↑/↓: Select  Esc: Clear  O: Open stats  R: Refresh  Q: Quit"

// UnknownAircraft is shown when a pilot has not filed an aircraft type.
const UnknownAircraft = "???"

// Headers are the table column titles, matching the cells returned by Row.
var Headers = []string{
	"Callsign",
	"Aircraft",
	"Distance",
	"Time piloting (hours)",
	"Time controlling (hours)",
}

var printer = message.NewPrinter(language.English)

// Hours formats a number of hours rounded to the nearest hour with
// thousands separators ("12,345"). NaN and infinities are shown as "-".
func Hours(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return "-"
	}
	return printer.Sprintf("%d", int64(math.Round(h)))
}

// Aircraft returns the row's aircraft label.
func Aircraft(r monitor.RankedPilot) string {
	if a := r.Pilot.Aircraft(); a != "" {
		return a
	}
	return UnknownAircraft
}

// Distance formats distance and bearing from the airport ("12.3 nm NE").
func Distance(r monitor.RankedPilot) string {
	return fmt.Sprintf("%.1f nm %s", r.DistanceNM, coordinates.CompassPoint(r.Bearing))
}

// Row returns the table cells for r.
func Row(r monitor.RankedPilot) []string {
	return []string{
		r.Pilot.Callsign,
		Aircraft(r),
		Distance(r),
		Hours(r.Times.Pilot),
		Hours(r.Times.ATC),
	}
}

// Title is the table caption.
func Title(airport string, radiusNM float64) string {
	return fmt.Sprintf("Pilots within %s nm of %s", trimFloat(radiusNM), airport)
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

// LastUpdated formats the time of the last successful refresh.
func LastUpdated(t time.Time) string {
	if t.IsZero() {
		return "waiting for data"
	}
	return t.UTC().Format(time.RFC3339)
}

// Status summarizes the last cycle for the status line. It returns "" when
// there is nothing to report.
func Status(b monitor.Board) string {
	var parts []string
	if b.LastErr != nil {
		msg := fmt.Sprintf("Refresh failed: %v", b.LastErr)
		if b.ConsecutiveFailures > 1 {
			msg = fmt.Sprintf("Refresh failed %d times: %v", b.ConsecutiveFailures, b.LastErr)
		}
		if !b.UpdatedAt.IsZero() {
			msg += " (showing previous data)"
		}
		parts = append(parts, msg)
	}
	if n := len(b.Failures); n > 0 {
		noun := "pilots"
		if n == 1 {
			noun = "pilot"
		}
		parts = append(parts, fmt.Sprintf("%d %s skipped: hours unavailable", n, noun))
	}
	return strings.Join(parts, "; ")
}

// Opener opens a URL outside the terminal.
type Opener func(url string) error

// BrowserOpener opens URLs in the system web browser. The launched
// command's output is discarded so it cannot draw over the table.
func BrowserOpener() Opener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL
}
