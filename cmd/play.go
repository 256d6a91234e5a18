package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <category>",
	Short: "Start a quiz in one category",
	Long: "Start a quiz in one category, skipping the home menu. The category is a\n" +
		"configured id such as xz, tk or pd, or \"mixed\" for the combined quiz.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args[0])
	},
}
