package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/favorites"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/i18n"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/linecolor"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/locate"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/prefs"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/search"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/store"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/task"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/view"
)

var (
	// These act as fallbacks until ApplyTheme runs with the user's preferences
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(prefs.DefaultAccentColor))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// App bundles everything the commands and the interactive flow need
type App struct {
	Client    *transit.Client
	Searcher  *search.Searcher
	Favorites *favorites.Store
	Store     store.Store
	Prefs     prefs.Preferences
	Colors    *linecolor.Table
	Locator   *locate.Locator

	RadiusMeters     float64
	StationboardSize int

	nav        *view.Navigator
	nearby     task.Latest[[]transit.Station]
	departures task.Latest[[]transit.Departure]
}

// OnSuperseded registers fn for every nearby or stationboard fetch that lost to a newer one
func (a *App) OnSuperseded(fn func()) {
	a.nearby.OnSuperseded = fn
	a.departures.OnSuperseded = fn
}

// T returns a translator for the current language preference
func (a *App) T() *i18n.Translator {
	return i18n.New(a.Prefs.German)
}

// SavePrefs persists p and applies it to the running session
func (a *App) SavePrefs(ctx context.Context, p prefs.Preferences) error {
	if err := prefs.Save(ctx, a.Store, p); err != nil {
		return err
	}
	a.Prefs = p
	if a.Locator != nil {
		a.Locator.Consent = p.LocationConsent
		if _, ok := a.Locator.Fallback.(locate.StaticProvider); ok {
			a.Locator.Fallback = locate.StaticProvider{Coordinate: p.Home}
		}
	}
	ApplyTheme(p)
	return nil
}

// ApplyTheme updates the global styles so plain CLI output also picks up the accent color.
func ApplyTheme(p prefs.Preferences) *huh.Theme {
	baseColor := p.AccentColor
	if baseColor == "" {
		baseColor = prefs.DefaultAccentColor
	}
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor))
	lipgloss.SetHasDarkBackground(p.Dark())
	return GetCustomTheme(baseColor, p.Dark())
}

// GetCustomTheme returns a new huh.Theme instantiated with the provided lipgloss color string.
// This is used for live-previewing styles before they are officially saved.
func GetCustomTheme(baseColor string, dark bool) *huh.Theme {
	t := huh.ThemeBase()
	if dark {
		t = huh.ThemeCharm()
	}
	p := lipgloss.Color(baseColor)

	// Inject the dynamic color into the active inputs, cursors, borders, and buttons
	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "235"})
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	// Softer borders for unfocused elements
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

func (a *App) theme() *huh.Theme {
	return ApplyTheme(a.Prefs)
}

// RunTUI launches the main menu interactive form experience
func (a *App) RunTUI(ctx context.Context) error {
	tr := a.T()
	for {
		var action string

		menu := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(tr.T("app.subtitle")).
					Options(
						huh.NewOption("📍 "+tr.T("nearby.stations"), "nearby"),
						huh.NewOption("⭐ "+tr.T("favorite.stations"), "favorites"),
						huh.NewOption("🔎 "+tr.T("search.stations"), "search"),
						huh.NewOption("⚙️ "+tr.T("settings"), "settings"),
						huh.NewOption("👋 Quit", "quit"),
					).
					Value(&action),
			),
		).WithTheme(a.theme())

		if err := menu.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch action {
		case "nearby":
			err = a.runNearbyTUI(ctx)
		case "favorites":
			err = a.runStationsTUI(ctx, a.Favorites.List())
		case "search":
			err = a.runSearchTUI(ctx)
		case "settings":
			err = a.RunSettingsTUI(ctx)
			tr = a.T()
		default:
			return nil
		}

		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}
}
