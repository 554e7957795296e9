package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/i18n"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/linecolor"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// FormatMinutes renders a countdown as "Now" or "{n}min"
func FormatMinutes(minutes int, tr *i18n.Translator) string {
	if minutes <= 0 {
		return tr.T("now")
	}
	return tr.Tf("minutes", minutes)
}

// DelayLabel is "+5min" for a five minute delay and empty when there is none
func DelayLabel(delay *int) string {
	if delay == nil || *delay <= 0 {
		return ""
	}
	return fmt.Sprintf("+%dmin", *delay)
}

// Badge renders the line label in its line color
func Badge(colors *linecolor.Table, category, number string) string {
	label := category
	if number != "" {
		label = category + " " + number
	}
	if colors == nil {
		return label
	}
	return colors.Lookup(category, number).Style().Render(label)
}

// StationLine is one row of a station list: favorite marker, name and distance when known
func StationLine(st transit.Station) string {
	var b strings.Builder
	if st.IsFavorite {
		b.WriteString("⭐ ")
	}
	b.WriteString(st.Name)
	if st.Distance != nil {
		if dist := geo.FormatDistance(*st.Distance); dist != "" {
			b.WriteString(mutedStyle.Render(" · " + dist))
		}
	}
	return b.String()
}

// DepartureLine is one row of a stationboard
func DepartureLine(d transit.Departure, now time.Time, tr *i18n.Translator, colors *linecolor.Table) string {
	var b strings.Builder
	b.WriteString(Badge(colors, d.Category, d.Number))
	b.WriteString(" → ")
	b.WriteString(d.To)
	b.WriteString("  ")
	b.WriteString(timeStyle.Render(d.Stop.Departure.Local().Format("15:04")))
	b.WriteString(" ")
	b.WriteString(FormatMinutes(transit.MinutesFromNow(d.Stop.ExpectedDeparture(), now), tr))

	if d.Stop.Platform != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" · %s %s", tr.T("platform"), d.Stop.Platform)))
	}
	if delay := DelayLabel(d.Stop.Delay); delay != "" {
		b.WriteString(" ")
		b.WriteString(errorStyle.Render(delay))
	}
	return b.String()
}

// RouteView renders the header and pass list of a departure
func RouteView(d transit.Departure, now time.Time, tr *i18n.Translator, colors *linecolor.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s\n", Badge(colors, d.Category, d.Number), d.To)
	b.WriteString(mutedStyle.Render(tr.T("route.stops.timing")))
	b.WriteString("\n")

	if len(d.PassList) == 0 {
		b.WriteString(tr.T("no.route.info"))
		b.WriteString("\n")
		return b.String()
	}

	for i, stop := range d.PassList {
		marker := "├"
		if i == 0 {
			marker = "┌"
		} else if i == len(d.PassList)-1 {
			marker = "└"
		}

		clock := "--:--"
		countdown := ""
		if t := stop.Time(); !t.IsZero() {
			clock = t.Local().Format("15:04")
			countdown = FormatMinutes(transit.MinutesFromNow(t, now), tr)
		}

		fmt.Fprintf(&b, "%s %s %s", marker, timeStyle.Render(clock), stop.Name)
		if countdown != "" {
			b.WriteString(mutedStyle.Render(" · " + countdown))
		}
		if stop.Platform != "" {
			b.WriteString(mutedStyle.Render(fmt.Sprintf(" · %s %s", tr.T("platform"), stop.Platform)))
		}
		if delay := DelayLabel(stop.Delay); delay != "" {
			b.WriteString(" ")
			b.WriteString(errorStyle.Render(fmt.Sprintf("%s %s", delay, tr.T("delay"))))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Notice renders a dismissible error notification
func Notice(title, detail string) string {
	if detail == "" {
		return errorStyle.Render("❌ " + title)
	}
	return errorStyle.Render("❌ "+title) + "\n" + mutedStyle.Render(detail)
}

// Heading renders a section title in the accent color
func Heading(text string) string {
	return accentStyle.Render("\n--- " + text + " ---")
}

// Success renders a confirmation in the accent color
func Success(text string) string {
	return accentStyle.Render("✅ " + text)
}
