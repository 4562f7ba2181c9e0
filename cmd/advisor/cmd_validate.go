package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"advisor/internal/catalog"
	"advisor/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the catalog and run startup integrity validation",
	Long: `Loads the configured course catalog and runs the full startup
validation: prerequisite references must resolve, the prerequisite graph
must be acyclic, and course codes must be unique. Exits non-zero on any
integrity violation.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		var le *catalog.LoadError
		if errors.As(err, &le) {
			logger.Error("catalog integrity violation",
				zap.String("kind", le.Kind),
				zap.String("detail", le.Detail))
		}
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	stats := cat.Stats()
	fmt.Printf("catalog OK: %d courses, %d tracks, %d templates\n",
		stats["courses"], stats["tracks"], stats["templates"])
	return nil
}
