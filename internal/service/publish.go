package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/events"
)

// publish stamps and dispatches event. Handler failures are logged; they never fail the
// operation that emitted the event.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_name", event.UserName),
			zap.Error(err))
	}
}

func photoReplaced(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, kind domain.AccountKind, userName, oldKey string) {
	if oldKey == "" {
		return
	}
	publish(ctx, dispatcher, logger, events.Event{
		Type:     events.EventPhotoReplaced,
		Kind:     kind,
		UserName: userName,
		Payload:  events.PhotoPayload{PhotoKey: oldKey},
	})
}
