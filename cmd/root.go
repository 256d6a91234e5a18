package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/timu/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "timu",
	Short: "Terminal quiz runner",
	Long: "timu runs multiple-choice, fill-in-blank and true/false quizzes from JSON or YAML\n" +
		"question banks in the terminal, scores them and reviews the missed questions.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a timu.yaml config file")
	pf.String("banks", "", "Bank source: a directory or an http(s) URL; empty uses the built-in banks (overrides TIMU_BANKS_SOURCE)")
	pf.String("log-file", "", "Log file path (overrides TIMU_LOG_FILE)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides TIMU_LOG_LEVEL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default
// search path) and applies env and flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(config.Options{File: file, Flags: cmd.Flags()})
}
