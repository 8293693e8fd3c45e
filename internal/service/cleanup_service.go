package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/events"
)

// PhotoCleanupService removes photo objects that are no longer referenced by any account.
type PhotoCleanupService struct {
	dispatcher events.Dispatcher
	photos     *PhotoService
	logger     *zap.Logger
}

// NewPhotoCleanupService creates the service.
func NewPhotoCleanupService(dispatcher events.Dispatcher, photos *PhotoService, logger *zap.Logger) *PhotoCleanupService {
	return &PhotoCleanupService{dispatcher: dispatcher, photos: photos, logger: logger}
}

// RegisterHandlers subscribes to events.
func (p *PhotoCleanupService) RegisterHandlers() {
	if p.dispatcher == nil {
		return
	}
	p.dispatcher.Subscribe(events.EventAccountDeleted, p.removePhoto)
	p.dispatcher.Subscribe(events.EventPhotoReplaced, p.removePhoto)
	p.dispatcher.Subscribe(events.EventAccountCreated, p.logCreated)
}

func (p *PhotoCleanupService) removePhoto(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PhotoPayload)
	if !ok || payload.PhotoKey == "" {
		return nil
	}
	if err := p.photos.Remove(ctx, payload.PhotoKey); err != nil {
		return fmt.Errorf("remove photo %s: %w", payload.PhotoKey, err)
	}
	p.logger.Info("photo removed",
		zap.String("event_type", string(event.Type)),
		zap.String("user_name", event.UserName),
		zap.String("key", payload.PhotoKey))
	return nil
}

func (p *PhotoCleanupService) logCreated(_ context.Context, event events.Event) error {
	p.logger.Info("account created",
		zap.String("kind", string(event.Kind)),
		zap.String("user_name", event.UserName))
	return nil
}
