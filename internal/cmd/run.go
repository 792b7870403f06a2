package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deskpilot/internal/ai"
	"deskpilot/internal/automation"
	"deskpilot/internal/plan"
	"deskpilot/internal/recorder"
	"deskpilot/internal/store"
	"deskpilot/internal/vision"
)

var noRecord bool

var runCmd = &cobra.Command{
	Use:   "run <plan.json>",
	Short: "Execute a plan file against the desktop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		raw, err := plan.Decode(data)
		if err != nil {
			return err
		}

		config, err := ai.LoadConfig()
		if err != nil {
			return err
		}
		client := ai.NewClient(config)

		var rec automation.Recorder
		if !noRecord {
			rec = recorder.New(log)
		}

		runner := automation.NewRunner(
			store.New(),
			vision.New(client, log),
			automation.NewRobotActuator(true),
			rec,
			log,
		)
		result := runner.Execute(raw, "")

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if !result.Success {
			return fmt.Errorf("%d of %d steps failed", result.FailedSteps, result.TotalSteps)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&noRecord, "no-record", false, "skip screen recording")
	rootCmd.AddCommand(runCmd)
}
