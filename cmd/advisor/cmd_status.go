package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"advisor/internal/config"
	"advisor/internal/logging"
	"advisor/internal/store"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog stats and recent routing decisions",
	RunE:  runStatus,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Dump recent audit events from the routing audit log",
	Long: `The audit log is the one-way observability channel: the classifier
appends every routing decision and notable event; nothing in the resolution
path ever reads it back. This command tails it for operators.`,
	RunE: runAudit,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "number of recent decisions to show")
	auditCmd.Flags().IntVarP(&statusLimit, "limit", "n", 20, "number of recent events to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}
	stats := cat.Stats()
	fmt.Printf("catalog: %d courses, %d tracks, %d templates\n",
		stats["courses"], stats["tracks"], stats["templates"])
	fmt.Printf("llm provider: %s (model %s)\n", cfg.LLM.Provider, cfg.LLM.Model)

	decisions, err := store.Open(workspace)
	if err != nil {
		fmt.Println("decision archive: unavailable")
		return nil
	}
	defer decisions.Close()

	total, err := decisions.Count()
	if err != nil {
		return fmt.Errorf("decision archive: %w", err)
	}
	fmt.Printf("decision archive: %d decisions at %s\n", total, decisions.Path())

	recent, err := decisions.Recent(statusLimit)
	if err != nil {
		return fmt.Errorf("decision archive: %w", err)
	}
	for _, d := range recent {
		fmt.Printf("  %s  %-20s  %.2f  %s\n",
			d.DecidedAt.Format(time.RFC3339), d.Strategy, d.Confidence, d.Rationale)
	}
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	events, err := logging.ReadAuditTail(workspace, statusLimit)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("audit log is empty")
		return nil
	}
	for _, ev := range events {
		ts := time.UnixMilli(ev.Timestamp).Format(time.RFC3339)
		line := fmt.Sprintf("%s  %-17s", ts, ev.EventType)
		if ev.Strategy != "" {
			line += fmt.Sprintf("  %s (%.2f)", ev.Strategy, ev.Confidence)
		}
		if ev.Rationale != "" {
			line += "  " + ev.Rationale
		}
		if ev.Message != "" {
			line += "  " + ev.Message
		}
		if len(ev.MatchedSignals) > 0 {
			line += "  [" + strings.Join(ev.MatchedSignals, ", ") + "]"
		}
		fmt.Println(line)
	}
	return nil
}
