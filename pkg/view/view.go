package view

import (
	"errors"
	"fmt"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// State is one of the three screens of the departures flow
type State int

const (
	StationList State = iota
	DepartureList
	RouteDetail
)

func (s State) String() string {
	switch s {
	case StationList:
		return "stations"
	case DepartureList:
		return "departures"
	case RouteDetail:
		return "route"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid view transition")

// Navigator tracks which screen is showing and the data behind it.
// Transitions only happen through user selection or Back; nothing moves on its own.
type Navigator struct {
	state State

	stations   []transit.Station
	station    transit.Station
	departures []transit.Departure
	departure  transit.Departure
}

func New() *Navigator {
	return &Navigator{state: StationList}
}

func (n *Navigator) State() State { return n.state }

func (n *Navigator) Stations() []transit.Station { return n.stations }

func (n *Navigator) Station() transit.Station { return n.station }

func (n *Navigator) Departures() []transit.Departure { return n.departures }

func (n *Navigator) Departure() transit.Departure { return n.departure }

// SelectStation moves from the station list to that station's departures.
// The departure list starts empty until SetDepartures is called.
func (n *Navigator) SelectStation(s transit.Station) error {
	if n.state != StationList {
		return fmt.Errorf("%w: select station from %s", ErrInvalidTransition, n.state)
	}
	n.station = s
	n.departures = nil
	n.state = DepartureList
	return nil
}

// SelectDeparture opens the route detail of d
func (n *Navigator) SelectDeparture(d transit.Departure) error {
	if n.state != DepartureList {
		return fmt.Errorf("%w: select departure from %s", ErrInvalidTransition, n.state)
	}
	n.departure = d
	n.state = RouteDetail
	return nil
}

// Back returns to the previous screen. It reports false when already on the station list.
func (n *Navigator) Back() bool {
	switch n.state {
	case RouteDetail:
		n.departure = transit.Departure{}
		n.state = DepartureList
		return true
	case DepartureList:
		n.station = transit.Station{}
		n.departures = nil
		n.state = StationList
		return true
	default:
		return false
	}
}

// SetStations replaces the station list wholesale. It is valid in any state since the
// list stays behind the departures screen.
func (n *Navigator) SetStations(stations []transit.Station) {
	n.stations = append([]transit.Station(nil), stations...)
}

// SetDepartures replaces the departures of the selected station after a fetch or refresh.
func (n *Navigator) SetDepartures(deps []transit.Departure) error {
	if n.state == StationList {
		return fmt.Errorf("%w: departures without a selected station", ErrInvalidTransition)
	}
	n.departures = append([]transit.Departure(nil), deps...)
	return nil
}
