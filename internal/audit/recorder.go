// Package audit keeps an append-only trail of mutating operations. Events
// flow through a buffered inbox consumed by a background worker so request
// handlers never block on audit persistence.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"caretrack/internal/storage"
	"caretrack/pkg/requestcontext"
)

// Recorder accepts events from domain logic and persists them to the audit
// collection. Recording is best-effort: a full inbox or a store failure is
// logged, never surfaced to the caller.
type Recorder struct {
	store  storage.Store
	logger *slog.Logger
	inbox  chan Event
}

func NewRecorder(store storage.Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger,
		inbox:  make(chan Event, 256),
	}
}

// Record enqueues an event for the given action, filling request metadata
// from the context.
func (r *Recorder) Record(ctx context.Context, action string, entityID int64) {
	if r == nil {
		return
	}
	event := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		EntityID:  entityID,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    DescribeClient(requestcontext.UserAgent(ctx)),
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.Warn("audit inbox full, dropping event",
			"action", action,
			"entity_id", entityID,
		)
	}
}

// Run consumes the inbox until the context is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-r.inbox:
			if err := r.persist(ctx, event); err != nil {
				r.logger.Error("failed to persist audit event",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}

func (r *Recorder) persist(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	var doc storage.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	return r.store.InsertOne(ctx, storage.CollectionAudit, doc)
}
