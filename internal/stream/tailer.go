// Package stream implements the poll-based tail loop behind the SSE
// endpoints. One Tailer serves one connection; polls are strictly
// sequential and the cursor only moves forward.
package stream

import (
	"context"
	"time"

	"github.com/beaver-systems/beaver/internal/metrics"
	"github.com/beaver-systems/beaver/internal/models"
)

// Querier fetches the events that arrived after a cursor, newest first.
type Querier interface {
	EventsAfter(ctx context.Context, afterID int64) ([]models.Event, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, afterID int64) ([]models.Event, error)

func (f QuerierFunc) EventsAfter(ctx context.Context, afterID int64) ([]models.Event, error) {
	return f(ctx, afterID)
}

// Tailer repeatedly polls a Querier and hands every batch, including empty
// heartbeat batches, to a push callback.
type Tailer struct {
	querier  Querier
	interval time.Duration
	cursor   int64
}

// New creates a Tailer starting at the given cursor. Events with an id at or
// below it are never delivered.
func New(querier Querier, interval time.Duration, cursor int64) *Tailer {
	return &Tailer{querier: querier, interval: interval, cursor: cursor}
}

// Cursor returns the current cursor position.
func (t *Tailer) Cursor() int64 { return t.cursor }

// Run polls until ctx is cancelled or a query fails. The first poll happens
// immediately, later ones on the fixed interval. push is called once per
// poll with the batch in query order; an empty batch is still pushed so the
// consumer sees a heartbeat. push errors (a gone client) end the loop.
func (t *Tailer) Run(ctx context.Context, push func([]models.Event) error) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if err := t.poll(ctx, push); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *Tailer) poll(ctx context.Context, push func([]models.Event) error) error {
	metrics.StreamPolls.Inc()

	events, err := t.querier.EventsAfter(ctx, t.cursor)
	if err != nil {
		return err
	}
	for _, e := range events {
		if e.ID > t.cursor {
			t.cursor = e.ID
		}
	}
	if events == nil {
		events = []models.Event{}
	}
	return push(events)
}
