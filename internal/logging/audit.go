// Package logging - append-only audit channel for routing decisions.
// Every RoutingDecision is written as one JSON line to .advisor/audit.jsonl.
// The channel is one-way: the classifier only ever appends; nothing in the
// resolution path reads it back. The CLI may tail it for observability.
package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType defines the type of audit event.
type AuditEventType string

const (
	AuditDecisionMade    AuditEventType = "decision_made"
	AuditAmbiguousSignal AuditEventType = "ambiguous_signal"
	AuditExternalError   AuditEventType = "external_error"
	AuditFallbackUsed    AuditEventType = "fallback_used"
	AuditSessionUpdate   AuditEventType = "session_update"
	AuditNotFound        AuditEventType = "not_found"
)

// AuditEvent represents a structured audit log entry.
type AuditEvent struct {
	Timestamp      int64          `json:"ts"` // Unix milliseconds
	EventType      AuditEventType `json:"event"`
	SessionID      string         `json:"session,omitempty"`
	RequestID      string         `json:"req,omitempty"`
	Strategy       string         `json:"strategy,omitempty"`
	Confidence     float64        `json:"confidence,omitempty"`
	MatchedSignals []string       `json:"matched_signals,omitempty"`
	Rationale      string         `json:"rationale,omitempty"`
	Message        string         `json:"msg,omitempty"`
}

var (
	auditMu   sync.Mutex
	auditFile *os.File
	auditPath string
)

// InitAudit opens the append-only audit file under the workspace.
// Unlike category logging, the audit channel is always on: routing decisions
// must be explainable even in production mode.
func InitAudit(ws string) error {
	auditMu.Lock()
	defer auditMu.Unlock()

	dir := filepath.Join(ws, ".advisor")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	path := filepath.Join(dir, "audit.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = f
	auditPath = path
	return nil
}

// CloseAudit closes the audit file (call at shutdown).
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit appends one event to the audit channel. Failures degrade to stderr;
// an unwritable audit log must never fail a query.
func Audit(ev AuditEvent) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[audit] marshal failed: %v\n", err)
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile == nil {
		return // audit not initialized (tests, library use)
	}
	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "[audit] write failed: %v\n", err)
	}
}

// ReadAuditTail returns up to limit most recent audit events from the
// workspace audit file. This is an operator/CLI surface only; the resolution
// path never calls it.
func ReadAuditTail(ws string, limit int) ([]AuditEvent, error) {
	path := filepath.Join(ws, ".advisor", "audit.jsonl")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []AuditEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue // tolerate torn writes
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
