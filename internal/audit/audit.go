// Package audit records lifecycle events in an append-only log.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

// Log appends lifecycle events for one actor. Entries are immutable once
// written; there is no update or delete path.
type Log struct {
	store   store.Store
	actorID string
	now     func() time.Time
}

// New creates a Log writing on behalf of the given actor.
func New(st store.Store, actorID string) *Log {
	return &Log{store: st, actorID: actorID, now: time.Now}
}

// Record appends one event.
func (l *Log) Record(ctx context.Context, typ model.AuditType, payload map[string]any) error {
	entry := model.AuditEntry{
		ID:        uuid.New().String(),
		Type:      typ,
		Timestamp: l.now().UTC(),
		ActorID:   l.actorID,
		Payload:   payload,
	}
	if err := l.store.AppendAudit(ctx, entry); err != nil {
		return eris.Wrapf(err, "audit: record %s", typ)
	}
	zap.L().Debug("audit: event recorded",
		zap.String("type", string(typ)),
		zap.String("actor", l.actorID),
	)
	return nil
}

// Entries returns the newest events first.
func (l *Log) Entries(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	entries, err := l.store.ListAudit(ctx, limit)
	if err != nil {
		return nil, eris.Wrap(err, "audit: list entries")
	}
	return entries, nil
}
