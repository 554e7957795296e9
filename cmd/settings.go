package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/prefs"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Manage nextup preferences",
	Long:    "View or edit your preferences (language, theme, accent color, location consent, home position). Without flags the interactive settings menu opens.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.NFlag() == 0 {
			return app.RunSettingsTUI(cmd.Context())
		}

		show, _ := flags.GetBool("show")
		if show && flags.NFlag() == 1 {
			fmt.Println(app.SettingsSummary())
			return nil
		}

		p := app.Prefs
		if flags.Changed("german") {
			p.German, _ = flags.GetBool("german")
		}
		if flags.Changed("theme") {
			p.Theme, _ = flags.GetString("theme")
		}
		if flags.Changed("accent") {
			p.AccentColor, _ = flags.GetString("accent")
		}
		if flags.Changed("consent") {
			p.LocationConsent, _ = flags.GetBool("consent")
		}
		if flags.Changed("clear-home") {
			p.Home = nil
		}
		if flags.Changed("home-lat") || flags.Changed("home-lon") {
			if !flags.Changed("home-lat") || !flags.Changed("home-lon") {
				return fmt.Errorf("--home-lat and --home-lon must be given together")
			}
			lat, _ := flags.GetFloat64("home-lat")
			lon, _ := flags.GetFloat64("home-lon")
			p.Home = &geo.Coordinate{Latitude: lat, Longitude: lon}
		}

		if err := app.SavePrefs(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Println(tui.Success(app.T().T("settings.saved")))
		if show {
			fmt.Println(app.SettingsSummary())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().Bool("german", false, "Show the interface in German")
	settingsCmd.Flags().String("theme", prefs.ThemeLight, "Color theme: light or dark")
	settingsCmd.Flags().String("accent", prefs.DefaultAccentColor, "Accent color as an ANSI code or #RRGGBB")
	settingsCmd.Flags().Bool("consent", false, "Allow looking up your location from your network address")
	settingsCmd.Flags().Float64("home-lat", 0, "Latitude of your home position, used when the location lookup fails")
	settingsCmd.Flags().Float64("home-lon", 0, "Longitude of your home position")
	settingsCmd.Flags().Bool("clear-home", false, "Forget the saved home position")
	settingsCmd.Flags().Bool("show", false, "Print the current settings")
}
