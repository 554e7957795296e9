package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

func TestDeparturesICS(t *testing.T) {
	delay := 3
	deps := []transit.Departure{
		{
			ID:       "tram-11",
			Category: "T",
			Number:   "11",
			To:       "Auzelg",
			Stop: transit.Stop{
				Departure: transit.Timestamp{Time: time.Date(2026, 3, 4, 8, 15, 0, 0, time.FixedZone("CET", 3600))},
				Platform:  "D",
				Delay:     &delay,
			},
		},
		{
			// No departure time, skipped
			Category: "S",
			Number:   "3",
			To:       "Wetzikon",
		},
	}

	var buf bytes.Buffer
	if err := DeparturesICS("Bahnhofstrasse", deps, &buf); err != nil {
		t.Fatalf("DeparturesICS failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "SUMMARY:T 11 → Auzelg") {
		t.Errorf("Expected ICS to contain line summary, got: \n%s", output)
	}

	if !strings.Contains(output, "LOCATION:Bahnhofstrasse (Platform D)") {
		t.Errorf("Expected ICS to contain station and platform, got: \n%s", output)
	}

	// 04-Mar-2026 08:15 CET plus 3 minutes delay is 07:18 UTC.
	if !strings.Contains(output, "DTSTART:20260304T071800Z") {
		t.Errorf("Expected delayed start time in UTC, got: \n%s", output)
	}

	if strings.Count(output, "BEGIN:VEVENT") != 1 {
		t.Errorf("Expected departures without a time to be skipped, got: \n%s", output)
	}

	if !strings.Contains(output, "UID:tram-11@nextup") {
		t.Errorf("Expected departure id as UID, got: \n%s", output)
	}
}

func TestDeparturesICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := DeparturesICS("Nowhere", nil, &buf); err != nil {
		t.Fatalf("DeparturesICS failed: %v", err)
	}
	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") {
		t.Errorf("Expected an empty calendar, got: \n%s", buf.String())
	}
}
