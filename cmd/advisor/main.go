package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"advisor/internal/catalog"
	"advisor/internal/config"
	"advisor/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	sessionID string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "advisor - hybrid query-resolution engine for course advising",
	Long: `advisor answers course-advising questions by resolving them against a
structured academic knowledge graph first, and a generative model only when
structured resolution cannot answer.

Every routing decision is explainable: the classifier records which signals
matched, which strategy won, and why, in an append-only audit log.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		logging.CloseAudit()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadCatalog applies the configured catalog source: an explicit directory
// from config/env, or the embedded default.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogDir != "" {
		return catalog.Load(cfg.CatalogDir)
	}
	return catalog.LoadDefault()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: cwd)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "default", "session identifier for student context")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
