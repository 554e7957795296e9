package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/i18n"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

func newCoordCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().Float64("lat", 0, "")
	c.Flags().Float64("lon", 0, "")
	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return c
}

func TestCoordinateFromFlags(t *testing.T) {
	coord, err := coordinateFromFlags(newCoordCmd(t))
	if err != nil || coord != nil {
		t.Fatalf("expected no coordinate without flags, got %v, %v", coord, err)
	}

	coord, err = coordinateFromFlags(newCoordCmd(t, "--lat", "47.3769", "--lon", "8.5417"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Latitude != 47.3769 || coord.Longitude != 8.5417 {
		t.Errorf("unexpected coordinate %v", coord)
	}

	if _, err := coordinateFromFlags(newCoordCmd(t, "--lat", "47.3769")); err == nil {
		t.Errorf("expected error when only --lat is given")
	}
	if _, err := coordinateFromFlags(newCoordCmd(t, "--lat", "91", "--lon", "8")); err == nil {
		t.Errorf("expected error for out of range latitude")
	}
}

func TestPrintNearby_FavoriteListedOnce(t *testing.T) {
	d1, d2 := 40.0, 310.0
	favs := []transit.Station{{ID: "8503000", Name: "Zürich HB"}}
	nearby := []transit.Station{
		{ID: "8503000", Name: "Zürich HB", Distance: &d1},
		{ID: "8591105", Name: "Zürich, Central", Distance: &d2},
	}

	var buf bytes.Buffer
	printNearby(&buf, i18n.New(false), favs, nearby, 1000)
	out := buf.String()

	if n := strings.Count(out, "Zürich HB"); n != 1 {
		t.Errorf("expected the favorite to be listed once, got %d times:\n%s", n, out)
	}
	if !strings.Contains(out, "Zürich, Central") {
		t.Errorf("expected the other nearby station to be listed:\n%s", out)
	}
	if strings.Index(out, "Zürich HB") > strings.Index(out, "Zürich, Central") {
		t.Errorf("expected favorites before nearby stations:\n%s", out)
	}
}

func TestPrintNearby_NoStations(t *testing.T) {
	var buf bytes.Buffer
	printNearby(&buf, i18n.New(false), nil, nil, 500)

	if !strings.Contains(buf.String(), "500m") {
		t.Errorf("expected the empty message to name the radius, got:\n%s", buf.String())
	}
}
