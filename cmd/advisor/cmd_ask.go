package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"advisor/internal/config"
	"advisor/internal/engine"
	"advisor/internal/logging"
	"advisor/internal/perception"
	"advisor/internal/router"
	"advisor/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Resolve one advising question through the engine",
	Long: `Runs a single question through the full pipeline: signal extraction,
routing, structured resolution (or generative fallback), and answer assembly.

Examples:
  advisor ask "what are the prereqs for CS 25100?"
  advisor ask "I'm a sophomore, what should I take in the fall?"
  advisor ask -s alice "I failed CS 18000, what happens?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logging.InitAudit(workspace); err != nil {
		logger.Warn("audit log disabled", zap.Error(err))
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}

	llm, err := perception.NewClientFromConfig(cmd.Context(), cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}
	if llm == nil {
		logger.Debug("no generative client configured; fallback will degrade")
	}

	decisions, err := store.Open(workspace)
	if err != nil {
		logger.Warn("decision archive disabled", zap.Error(err))
		decisions = nil
	} else {
		defer decisions.Close()
	}

	eng := engine.New(cfg, cat, engine.Options{LLM: llm, Decisions: decisions})

	answer, decision := eng.ProcessQuery(cmd.Context(), sessionID, question)

	fmt.Println(answer.ResponseText)
	fmt.Println()
	fmt.Printf("confidence: %.2f  source: %s", answer.Confidence, answer.Source)
	if answer.MatchedTrack != "" {
		fmt.Printf("  track: %s", answer.MatchedTrack)
	}
	fmt.Println()
	if verbose {
		fmt.Println("routing:", router.Describe(decision))
	}
	return nil
}
