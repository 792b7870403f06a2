package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deskpilot/internal/plan"
	"deskpilot/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan.json>",
	Short: "Check a plan file without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		raw, err := plan.Decode(data)
		if err != nil {
			return err
		}

		report := plan.NewValidator(store.New()).Report(raw)

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if !report.IsValid {
			return fmt.Errorf("plan has %d error(s)", report.ErrorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
