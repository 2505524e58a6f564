package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/palabra/internal/app"
	"github.com/abhisek/palabra/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "palabra",
	Short: "Learn a language from a feed of short content",
	Long: "palabra ranks short-form content by how much of it you already understand " +
		"and schedules the words you save for spaced review.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, 0)
	},
}

// Execute runs the command line with ctx as the base context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PALABRA_DB and the config file)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides "+config.PathEnvVar+")")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Learner to act as")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(seenCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB.Path = p
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.User = u
	}
	return cfg, nil
}

// openApp loads configuration and opens the store and services.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.Open(cmd.Context(), cfg)
}
