package cmd

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/config"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/favorites"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/linecolor"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/locate"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/metrics"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/prefs"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/search"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/store"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

// Shared by every command, built once in the root's PersistentPreRunE
var (
	cfg       *config.Config
	app       *tui.App
	collector *metrics.Collector
	kv        store.Store
)

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	cfg.InitializeLogging(os.Stderr)

	kv, err = store.Open(ctx, cfg.StoreDSN)
	if err != nil {
		return err
	}

	favs := favorites.New(kv)
	if err := favs.Load(ctx); err != nil {
		return err
	}

	p, err := prefs.Load(ctx, kv)
	if err != nil {
		// Broken preferences should not lock the user out, defaults still work
		log.Warn().Err(err).Msg("using default preferences")
	}

	colors, err := linecolor.Load(cfg.LineColorsFile)
	if err != nil {
		return err
	}

	collector = metrics.NewCollector()

	client := transit.NewClient(transit.Options{
		BaseURL:         cfg.APIBaseURL,
		Timeout:         cfg.HTTPTimeout,
		MaxAttempts:     cfg.MaxAttempts,
		SearchCacheSize: cfg.SearchCacheSize,
		SearchCacheTTL:  cfg.SearchCacheTTL,
		Metrics:         collector,
	})

	app = &tui.App{
		Client:    client,
		Searcher:  search.New(client, cfg.SearchDebounce, collector.TaskSuperseded),
		Favorites: favs,
		Store:     kv,
		Prefs:     p,
		Colors:    colors,
		Locator: &locate.Locator{
			Primary:  locate.IPProvider{URL: cfg.GeoIPURL, HTTPClient: &http.Client{Timeout: cfg.LocateTimeout}},
			Fallback: locate.StaticProvider{Coordinate: p.Home},
			Timeout:  cfg.LocateTimeout,
			Consent:  p.LocationConsent,
			Metrics:  collector,
		},
		RadiusMeters:     cfg.RadiusMeters,
		StationboardSize: cfg.StationboardSize,
	}
	app.OnSuperseded(collector.TaskSuperseded)
	tui.ApplyTheme(p)

	log.Debug().Str("store", cfg.StoreDSN).Str("api", cfg.APIBaseURL).Msg("nextup ready")
	return nil
}

func teardown() error {
	if kv == nil {
		return nil
	}
	err := kv.Close()
	kv = nil
	return err
}
