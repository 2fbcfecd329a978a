package audit

import (
	"context"
	"time"

	id "vetgate/pkg/domain"
)

// Emitter is the interface the pipeline publishes through.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, caseID id.CaseID) ([]Event, error) {
	return p.store.ListByCase(ctx, caseID)
}
