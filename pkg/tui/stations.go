package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/favorites"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/locate"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/search"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/view"
)

const (
	optBack     = "back"
	optRefresh  = "refresh"
	optFavorite = "favorite"
)

// Locate resolves the user's position through the configured providers
func (a *App) Locate(ctx context.Context) (geo.Coordinate, error) {
	if a.Locator == nil {
		return geo.Coordinate{}, locate.ErrNoLocation
	}
	return a.Locator.Locate(ctx)
}

// NearbyFrom fetches stations around coord. A newer call cancels one still in flight.
func (a *App) NearbyFrom(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]transit.Station, error) {
	if radiusMeters <= 0 {
		radiusMeters = a.RadiusMeters
	}
	return a.nearby.Run(ctx, func(ctx context.Context) ([]transit.Station, error) {
		return a.Client.FetchNearbyStations(ctx, coord, radiusMeters)
	})
}

// Departures fetches the stationboard of a station. A newer call cancels one still in flight.
func (a *App) Departures(ctx context.Context, stationName string) ([]transit.Departure, error) {
	return a.departures.Run(ctx, func(ctx context.Context) ([]transit.Departure, error) {
		return a.Client.FetchStationboard(ctx, stationName, a.StationboardSize)
	})
}

func (a *App) runNearbyTUI(ctx context.Context) error {
	tr := a.T()

	for {
		var stations []transit.Station
		var err error

		_ = spinner.New().
			Title(tr.T("finding.stations")).
			Action(func() {
				var coord geo.Coordinate
				coord, err = a.Locate(ctx)
				if err != nil {
					return
				}
				stations, err = a.NearbyFrom(ctx, coord, 0)
			}).
			Run()

		if errors.Is(err, locate.ErrPermissionDenied) {
			granted, ferr := a.askConsent(ctx)
			if ferr != nil || !granted {
				return ferr
			}
			continue
		}
		if err != nil {
			log.Error().Err(err).Msg("nearby stations failed")
			title := tr.T("no.stations.found")
			if errors.Is(err, locate.ErrNoLocation) {
				title = tr.T("location.unavailable")
			}
			fmt.Println(Notice(title, err.Error()))

			retry, ferr := a.confirm(ctx, tr.T("try.again")+"?")
			if ferr != nil || !retry {
				return ferr
			}
			continue
		}

		merged := favorites.Merge(a.Favorites.List(), stations)
		if len(stations) == 0 {
			fmt.Println(Notice(tr.T("no.stations.found"), tr.Tf("no.stations.description", geo.FormatDistance(a.RadiusMeters))))
		}
		return a.runStationsTUI(ctx, merged)
	}
}

func (a *App) askConsent(ctx context.Context) (bool, error) {
	tr := a.T()
	var granted bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(tr.T("location.required")).
				Description(tr.T("location.consent.description")).
				Value(&granted),
		),
	).WithTheme(a.theme())

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	if !granted {
		return false, nil
	}

	p := a.Prefs
	p.LocationConsent = true
	if err := a.SavePrefs(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func (a *App) confirm(ctx context.Context, title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Value(&ok),
		),
	).WithTheme(a.theme())

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return ok, nil
}

// runStationsTUI shows a station list and walks into the departures of whichever is picked
func (a *App) runStationsTUI(ctx context.Context, stations []transit.Station) error {
	tr := a.T()
	if len(stations) == 0 {
		fmt.Println(Notice(tr.T("no.stations.found"), tr.T("search.try.different")))
		return nil
	}

	a.nav = view.New()
	a.nav.SetStations(stations)

	for {
		var choice string
		options := make([]huh.Option[string], 0, len(stations)+1)
		for i, st := range a.nav.Stations() {
			st.IsFavorite = a.Favorites.IsFavorite(st.ID)
			options = append(options, huh.NewOption(StationLine(st), strconv.Itoa(i)))
		}
		options = append(options, huh.NewOption("⬅ "+tr.T("back"), optBack))

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(tr.T("nearby.stations")).
					Options(options...).
					Value(&choice).
					Height(15),
			),
		).WithTheme(a.theme())

		if err := form.RunWithContext(ctx); err != nil {
			return err
		}
		if choice == optBack {
			return nil
		}

		i, _ := strconv.Atoi(choice)
		if err := a.nav.SelectStation(a.nav.Stations()[i]); err != nil {
			return err
		}
		if err := a.runDeparturesTUI(ctx); err != nil {
			return err
		}
	}
}

// runDeparturesTUI shows the stationboard of the navigator's selected station until the user goes back
func (a *App) runDeparturesTUI(ctx context.Context) error {
	tr := a.T()
	station := a.nav.Station()
	defer a.nav.Back()

	for {
		var deps []transit.Departure
		var err error

		_ = spinner.New().
			Title(tr.T("loading.departures")).
			Action(func() {
				deps, err = a.Departures(ctx, station.Name)
			}).
			Run()

		if err != nil {
			log.Error().Err(err).Str("station", station.Name).Msg("stationboard failed")
			fmt.Println(Notice(tr.T("no.departures"), err.Error()))

			retry, ferr := a.confirm(ctx, tr.T("try.again")+"?")
			if ferr != nil || !retry {
				return ferr
			}
			continue
		}
		if err := a.nav.SetDepartures(deps); err != nil {
			return err
		}

		choice, err := a.pickDeparture(ctx, station)
		if err != nil {
			return err
		}

		switch choice {
		case optBack:
			return nil
		case optRefresh:
			continue
		case optFavorite:
			a.toggleFavorite(ctx, station)
			continue
		}

		i, _ := strconv.Atoi(choice)
		if err := a.nav.SelectDeparture(a.nav.Departures()[i]); err != nil {
			return err
		}
		if err := a.showRoute(ctx); err != nil {
			return err
		}
		a.nav.Back()
	}
}

func (a *App) pickDeparture(ctx context.Context, station transit.Station) (string, error) {
	tr := a.T()
	now := time.Now()

	var options []huh.Option[string]
	for i, d := range a.nav.Departures() {
		options = append(options, huh.NewOption(DepartureLine(d, now, tr, a.Colors), strconv.Itoa(i)))
	}

	favLabel := "⭐ " + tr.T("favorite.add")
	if a.Favorites.IsFavorite(station.ID) {
		favLabel = "☆ " + tr.T("favorite.remove")
	}
	options = append(options,
		huh.NewOption("🔄 "+tr.T("refresh"), optRefresh),
		huh.NewOption(favLabel, optFavorite),
		huh.NewOption("⬅ "+tr.T("back"), optBack),
	)

	description := ""
	if len(a.nav.Departures()) == 0 {
		description = tr.T("no.departures.description")
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s %s", tr.T("departures.for"), station.Name)).
				Description(description).
				Options(options...).
				Value(&choice).
				Height(18),
		),
	).WithTheme(a.theme())

	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return choice, nil
}

func (a *App) toggleFavorite(ctx context.Context, station transit.Station) {
	tr := a.T()
	on, err := a.Favorites.Toggle(ctx, station)
	if err != nil {
		log.Error().Err(err).Str("station_id", station.ID).Msg("failed to toggle favorite")
		fmt.Println(Notice(err.Error(), ""))
		return
	}
	if on {
		fmt.Println(accentStyle.Render("✅ " + tr.Tf("favorite.added", station.Name)))
	} else {
		fmt.Println(accentStyle.Render("✅ " + tr.Tf("favorite.removed", station.Name)))
	}
}

func (a *App) showRoute(ctx context.Context) error {
	tr := a.T()
	fmt.Println()
	fmt.Println(RouteView(a.nav.Departure(), time.Now(), tr, a.Colors))

	var done string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(huh.NewOption("⬅ "+tr.T("back"), optBack)).
				Value(&done),
		),
	).WithTheme(a.theme())

	return form.RunWithContext(ctx)
}

func (a *App) runSearchTUI(ctx context.Context) error {
	tr := a.T()

	var (
		query    string
		choice   string
		mu       sync.Mutex
		byID     = make(map[string]transit.Station)
		lastSeen []transit.Station
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(tr.T("search.stations.title")).
				Placeholder(tr.T("search.placeholder")).
				Value(&query),
			huh.NewSelect[string]().
				Title(tr.T("search")).
				OptionsFunc(func() []huh.Option[string] {
					if strings.TrimSpace(query) == "" {
						return nil
					}
					found, err := a.Searcher.Search(ctx, query)
					if search.IsSuperseded(err) {
						return nil
					}
					if err != nil {
						return []huh.Option[string]{huh.NewOption(tr.T("search.failed.description"), "")}
					}
					if len(found) == 0 {
						return []huh.Option[string]{huh.NewOption(tr.T("search.no.results"), "")}
					}

					mu.Lock()
					defer mu.Unlock()
					lastSeen = found
					options := make([]huh.Option[string], 0, len(found))
					for _, st := range found {
						byID[st.ID] = st
						st.IsFavorite = a.Favorites.IsFavorite(st.ID)
						options = append(options, huh.NewOption(StationLine(st), st.ID))
					}
					return options
				}, &query).
				Value(&choice).
				Height(10),
		),
	).WithTheme(a.theme())

	if err := form.RunWithContext(ctx); err != nil {
		return err
	}
	a.Searcher.Cancel()

	mu.Lock()
	station, ok := byID[choice]
	results := lastSeen
	mu.Unlock()
	if !ok {
		fmt.Println(Notice(tr.T("search.no.results"), tr.T("search.try.different")))
		return nil
	}

	a.nav = view.New()
	a.nav.SetStations(results)
	if err := a.nav.SelectStation(station); err != nil {
		return err
	}
	return a.runDeparturesTUI(ctx)
}
