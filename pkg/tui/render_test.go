package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/i18n"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/linecolor"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

func intPtr(v int) *int { return &v }

func TestDelayLabel(t *testing.T) {
	tests := []struct {
		delay *int
		want  string
	}{
		{nil, ""},
		{intPtr(0), ""},
		{intPtr(-2), ""},
		{intPtr(5), "+5min"},
	}

	for _, tt := range tests {
		if got := DelayLabel(tt.delay); got != tt.want {
			t.Errorf("DelayLabel(%v) = %q, want %q", tt.delay, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	en, de := i18n.New(false), i18n.New(true)

	if got := FormatMinutes(0, en); got != "Now" {
		t.Errorf("expected Now, got %q", got)
	}
	if got := FormatMinutes(0, de); got != "Jetzt" {
		t.Errorf("expected Jetzt, got %q", got)
	}
	if got := FormatMinutes(7, en); got != "7min" {
		t.Errorf("expected 7min, got %q", got)
	}
}

func TestStationLine(t *testing.T) {
	d := 420.0
	line := StationLine(transit.Station{Name: "Zürich HB", IsFavorite: true, Distance: &d})

	if !strings.HasPrefix(line, "⭐ Zürich HB") {
		t.Errorf("expected favorite marker and name, got %q", line)
	}
	if !strings.Contains(line, "420m") {
		t.Errorf("expected distance, got %q", line)
	}

	plain := StationLine(transit.Station{Name: "Bern"})
	if plain != "Bern" {
		t.Errorf("expected bare name, got %q", plain)
	}
}

func TestDepartureLine(t *testing.T) {
	now := time.Date(2026, 3, 4, 8, 10, 0, 0, time.Local)
	d := transit.Departure{
		Category: "T",
		Number:   "11",
		To:       "Auzelg",
		Stop: transit.Stop{
			Departure: transit.Timestamp{Time: now.Add(5 * time.Minute)},
			Platform:  "D",
			Delay:     intPtr(2),
		},
	}

	line := DepartureLine(d, now, i18n.New(true), linecolor.Default())

	for _, want := range []string{"T 11", "→ Auzelg", "08:15", "7min", "Gleis D", "+2min"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestRouteView(t *testing.T) {
	now := time.Date(2026, 3, 4, 8, 10, 0, 0, time.Local)
	d := transit.Departure{
		Category: "S",
		Number:   "3",
		To:       "Wetzikon",
		PassList: []transit.RouteStop{
			{Name: "Zürich HB", Departure: transit.Timestamp{Time: now}, Platform: "41"},
			{Name: "Stadelhofen", Departure: transit.Timestamp{Time: now.Add(3 * time.Minute)}, Delay: intPtr(1)},
			{Name: "Wetzikon", Arrival: transit.Timestamp{Time: now.Add(25 * time.Minute)}},
		},
	}

	out := RouteView(d, now, i18n.New(false), nil)

	for _, want := range []string{"S 3 → Wetzikon", "┌", "Zürich HB", "Now", "Platform 41", "+1min delay", "└", "08:35", "25min"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRouteView_NoPassList(t *testing.T) {
	out := RouteView(transit.Departure{Category: "B", Number: "31", To: "Hegibachplatz"}, time.Now(), i18n.New(false), nil)
	if !strings.Contains(out, "No route information available") {
		t.Errorf("expected empty route notice, got:\n%s", out)
	}
}
