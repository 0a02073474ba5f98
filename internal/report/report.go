// Package report renders search results for people: a grid table for the
// terminal and the short display strings shared with the web form.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/you/go-travel-flights/internal/flight"
)

const maxLinkLen = 50

var Headers = []string{"Price", "Airlines", "Departure -> Arrival", "Duration", "Stops", "Booking"}

func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func FormatStops(f flight.Flight) string {
	switch n := f.Stops(); n {
	case 0:
		return "non-stop"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", n)
	}
}

func FormatPrice(f flight.Flight) string {
	return fmt.Sprintf("%.0f %s", f.PriceTotal, f.Currency)
}

// FormatRoute gives "OSL 07:30 -> PER 02:50".
func FormatRoute(f flight.Flight) string {
	dep, arr := f.Departure(), f.Arrival()
	return fmt.Sprintf("%s %02d:%02d -> %s %02d:%02d",
		f.Origin(), dep.Time.Hour, dep.Time.Minute,
		f.Destination(), arr.Time.Hour, arr.Time.Minute)
}

// FormatBooking shortens long links and shows N/A when there is none.
func FormatBooking(f flight.Flight) string {
	if f.BookingLink == nil || *f.BookingLink == "" {
		return "N/A"
	}
	link := *f.BookingLink
	if len(link) > maxLinkLen {
		return link[:maxLinkLen] + "..."
	}
	return link
}

func Row(f flight.Flight) []string {
	return []string{
		FormatPrice(f),
		strings.Join(f.AirlineCodes, ", "),
		FormatRoute(f),
		FormatDuration(f.TotalMinutes()),
		FormatStops(f),
		FormatBooking(f),
	}
}

// Table writes flights as a grid, or a one-line notice when there are none.
func Table(w io.Writer, flights []flight.Flight) {
	if len(flights) == 0 {
		fmt.Fprintln(w, "No flights found matching your criteria.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(Headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetRowLine(true)
	for _, f := range flights {
		table.Append(Row(f))
	}
	table.Render()
}
