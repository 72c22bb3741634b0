package livestatus

import (
	"context"
	"log/slog"

	"github.com/coreos/go-systemd/v22/journal"
)

// AuditEntry describes one command sent to the monitoring system.
type AuditEntry struct {
	Command  string
	Target   string
	Line     string
	User     string
	Attempt  int
	TestMode bool
}

// Auditor records issued commands.
type Auditor interface {
	Audit(ctx context.Context, e AuditEntry)
}

// JournalAuditor writes audit entries to the systemd journal.
type JournalAuditor struct {
	Identifier string
}

// NewJournalAuditor returns a journal auditor, or nil when the journal is
// not reachable.
func NewJournalAuditor(identifier string) *JournalAuditor {
	if !journal.Enabled() {
		return nil
	}
	return &JournalAuditor{Identifier: identifier}
}

// Audit implements Auditor.
func (a *JournalAuditor) Audit(ctx context.Context, e AuditEntry) {
	vars := map[string]string{
		"SYSLOG_IDENTIFIER": a.Identifier,
		"PYNGCTL_COMMAND":   e.Command,
		"PYNGCTL_TARGET":    e.Target,
		"PYNGCTL_USER":      e.User,
	}
	if e.TestMode {
		vars["PYNGCTL_TEST_MODE"] = "1"
	}
	if err := journal.Send(e.Line, journal.PriNotice, vars); err != nil {
		slog.WarnContext(ctx, "failed to write audit entry", "error", err)
	}
}

// LogAuditor writes audit entries to a logger.
type LogAuditor struct {
	Logger *slog.Logger
}

// Audit implements Auditor.
func (a *LogAuditor) Audit(ctx context.Context, e AuditEntry) {
	a.Logger.InfoContext(ctx, "command issued",
		"command", e.Command,
		"target", e.Target,
		"user", e.User,
		"attempt", e.Attempt,
		"test_mode", e.TestMode)
}
