package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// eventLength is how long a departure blocks in the calendar
const eventLength = time.Minute

// DeparturesICS writes one calendar event per departure from station to w.
// Start times include any reported delay. Departures without a time are skipped.
func DeparturesICS(station string, deps []transit.Departure, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//nextup//departures//EN")

	now := time.Now()
	for i, d := range deps {
		if d.Stop.Departure.IsZero() {
			continue
		}
		start := d.Stop.ExpectedDeparture()

		uid := d.ID
		if uid == "" {
			uid = fmt.Sprintf("%s-%d", start.UTC().Format("20060102T150405Z"), i)
		}

		event := cal.AddEvent(uid + "@nextup")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(eventLength))
		event.SetSummary(fmt.Sprintf("%s → %s", d.LineLabel(), d.To))
		event.SetLocation(location(station, d.Stop.Platform))
		event.SetDescription(description(d))
	}

	return cal.SerializeTo(w)
}

func location(station, platform string) string {
	if platform == "" {
		return station
	}
	return fmt.Sprintf("%s (Platform %s)", station, platform)
}

func description(d transit.Departure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scheduled: %s", d.Stop.Departure.Local().Format("15:04"))
	if d.Stop.HasDelay() {
		fmt.Fprintf(&b, " (+%dmin)", d.Stop.DelayMinutes())
	}
	if d.Operator != "" {
		fmt.Fprintf(&b, "\nOperator: %s", d.Operator)
	}
	for _, s := range d.PassList {
		if t := s.Time(); !t.IsZero() {
			fmt.Fprintf(&b, "\n%s %s", t.Local().Format("15:04"), s.Name)
		}
	}
	return b.String()
}
