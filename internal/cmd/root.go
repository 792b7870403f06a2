// Package cmd wires the command line interface. Without arguments the binary
// starts the GUI; subcommands drive plan generation, validation and execution
// headlessly.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"deskpilot/internal/ui"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "deskpilot",
	Short: "AI-assisted desktop task automation",
	Long: `deskpilot turns natural-language instructions into step-by-step desktop
automation plans and executes them against the screen, recording each run.
Run without arguments to start the graphical interface.`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.RunGUI(logger())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// logger builds the process logger honoring --verbose.
func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
