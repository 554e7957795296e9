package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/prefs"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// RunSettingsTUI launches the interactive experience for managing preferences
func (a *App) RunSettingsTUI(ctx context.Context) error {
	for {
		tr := a.T()
		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(tr.T("settings.title")).
					Description(tr.T("settings.description")).
					Options(
						huh.NewOption(tr.T("language"), "language"),
						huh.NewOption(tr.T("dark.mode"), "dark"),
						huh.NewOption("Accent Color", "theme"),
						huh.NewOption(tr.T("location.consent"), "consent"),
						huh.NewOption("Home Station", "home"),
						huh.NewOption("View Current Settings", "view"),
						huh.NewOption("⬅ "+tr.T("back"), "back"),
					).
					Value(&action),
			),
		).WithTheme(a.theme())

		if err := initialForm.RunWithContext(ctx); err != nil {
			return err
		}

		var err error
		switch action {
		case "back":
			return nil
		case "language":
			err = a.runToggleTUI(ctx, tr.T("language"), tr.T("language.description")+" (Deutsch?)", func(p *prefs.Preferences) *bool { return &p.German })
		case "dark":
			err = a.runSetDarkTUI(ctx)
		case "theme":
			err = a.runSetThemeTUI(ctx)
		case "consent":
			err = a.runToggleTUI(ctx, tr.T("location.consent"), tr.T("location.consent.description"), func(p *prefs.Preferences) *bool { return &p.LocationConsent })
		case "home":
			err = a.runSetHomeTUI(ctx)
		case "view":
			fmt.Println(a.SettingsSummary())
		}

		if err != nil {
			return err
		}
	}
}

// SettingsSummary renders the current preferences
func (a *App) SettingsSummary() string {
	tr := a.T()
	p := a.Prefs

	var b strings.Builder
	b.WriteString(Heading(tr.T("settings.title")))
	b.WriteString("\n")

	language := "English"
	if p.German {
		language = "Deutsch"
	}
	fmt.Fprintf(&b, "%s: %s\n", tr.T("language"), language)
	fmt.Fprintf(&b, "%s: %v\n", tr.T("dark.mode"), p.Dark())
	fmt.Fprintf(&b, "Accent Color: %s %s\n", colorBlock(p.AccentColor), p.AccentColor)
	fmt.Fprintf(&b, "%s: %v\n", tr.T("location.consent"), p.LocationConsent)
	if p.Home == nil {
		b.WriteString("Home: Not set\n")
	} else {
		fmt.Fprintf(&b, "Home: %s\n", p.Home)
	}
	fmt.Fprintf(&b, "%s: %d\n", tr.T("favorite.stations"), len(a.Favorites.List()))
	return b.String()
}

func (a *App) runToggleTUI(ctx context.Context, title, description string, field func(*prefs.Preferences) *bool) error {
	p := a.Prefs
	value := *field(&p)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&value),
		),
	).WithTheme(a.theme())

	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	*field(&p) = value
	return a.saveAndReport(ctx, p)
}

func (a *App) runSetDarkTUI(ctx context.Context) error {
	tr := a.T()
	p := a.Prefs
	dark := p.Dark()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(tr.T("dark.mode")).
				Description(tr.T("dark.mode.description")).
				Value(&dark),
		),
	).WithTheme(a.theme())

	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	p.Theme = prefs.ThemeLight
	if dark {
		p.Theme = prefs.ThemeDark
	}
	return a.saveAndReport(ctx, p)
}

func (a *App) saveAndReport(ctx context.Context, p prefs.Preferences) error {
	if err := a.SavePrefs(ctx, p); err != nil {
		return err
	}
	fmt.Println(accentStyle.Render("\n✅ " + a.T().T("settings.saved") + "\n"))
	return nil
}

func (a *App) runSetHomeTUI(ctx context.Context) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your home station").
				Description("Used as the fallback location when your network location is unavailable.").
				Placeholder("e.g. Zürich HB").
				Value(&input),
		),
	).WithTheme(a.theme())

	if err := inputForm.RunWithContext(ctx); err != nil {
		return err
	}

	if strings.TrimSpace(input) == "" {
		fmt.Println("Operation cancelled: No station provided.")
		return nil
	}

	var stations []transit.Station
	var fetchErr error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching stations for '%s'...", input)).
		Action(func() {
			stations, fetchErr = a.Client.SearchStations(ctx, input)
		}).
		Run()

	if fetchErr != nil {
		return fmt.Errorf("could not look up station: %w", fetchErr)
	}

	// The API sorts by relevance, take the best match with a position
	for _, st := range stations {
		if !st.Coordinate.Valid() {
			continue
		}
		p := a.Prefs
		home := st.Coordinate
		p.Home = &home
		if err := a.SavePrefs(ctx, p); err != nil {
			return err
		}
		fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Successfully saved home location: %s (%s)\n", st.Name, home)))
		return nil
	}

	fmt.Println(errorStyle.Render(fmt.Sprintf("❌ No matching stations found for '%s'", input)))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func (a *App) runSetThemeTUI(ctx context.Context) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Lake Purple", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s SBB Red", colorBlock("#EB0000")), "#EB0000"),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Matrix Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(a.theme())

	if err := inputForm.RunWithContext(ctx); err != nil {
		return err
	}

	p := a.Prefs
	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(ValidateHexColor),
			),
		).WithTheme(a.theme())

		if err := hexForm.RunWithContext(ctx); err != nil {
			return err
		}
		p.AccentColor = hexInput
	} else {
		p.AccentColor = input
	}

	return a.saveAndReport(ctx, p)
}

// ValidateHexColor accepts #RRGGBB
func ValidateHexColor(str string) error {
	if len(str) != 7 || !strings.HasPrefix(str, "#") {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	for _, r := range str[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("must be a valid 6-character hex code starting with #")
		}
	}
	return nil
}
