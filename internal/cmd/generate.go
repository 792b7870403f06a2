package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deskpilot/internal/ai"
	"deskpilot/internal/store"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate <instruction>",
	Short: "Generate a plan from a natural-language instruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()

		config, err := ai.LoadConfig()
		if err != nil {
			return err
		}

		generator := ai.NewGenerator(ai.NewClient(config), store.New(), log)
		jsonStr, report, err := generator.Generate(args[0])
		if err != nil {
			return err
		}

		if generateOut != "" {
			if err := os.WriteFile(generateOut, []byte(jsonStr), 0644); err != nil {
				return err
			}
			log.Info("plan written", "path", generateOut)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), jsonStr)
		}

		for _, warning := range report.Warnings {
			log.Warn("plan warning", "warning", warning)
		}
		if !report.IsValid {
			return fmt.Errorf("generated plan still has %d error(s)", report.ErrorCount)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "output", "o", "", "write the plan to a file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}
