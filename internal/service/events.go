package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/callcenter-service/internal/events"
)

// publish stamps and emits a domain event. A nil dispatcher is a no-op so
// services stay testable without event wiring.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = dispatcher.Publish(ctx, event)
}
