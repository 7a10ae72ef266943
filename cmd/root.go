package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the availability engine
var rootCmd = &cobra.Command{
	Use:   "calavail",
	Short: "Aggregates availability across connected calendars",
	Long: `calavail aggregates busy periods from a user's connected Google and
Microsoft calendars, merges them into a canonical busy list, and derives
bookable time slots within working hours, all rendered in the requested
timezone.`,
	SilenceUsage: true,
}

var debug bool

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calavail version %s\n" .Version}}`)

	// If no subcommand is provided, run the availability command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "availability")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAvailabilityCmd())
	rootCmd.AddCommand(newBusyCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initLogging routes logs to stderr so command output on stdout stays
// machine-readable.
func initLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calavail version %s\n", version)
		},
	}
}
