package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var rootCmd = &cobra.Command{
	Use:   "nextup",
	Short: "Live departures from the public transport stations around you",
	Long: `nextup finds the Swiss public transport stations near you, shows their live
departures with delays and platforms, and keeps a list of your favorite stations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(tui.Notice(err.Error(), ""))
		_ = teardown()
		stop()
		os.Exit(1)
	}
}
