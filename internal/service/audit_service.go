package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fusion-kit/auth-service/internal/events"
)

// AuditService records security-relevant domain events in the log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventPrincipalRegistered, a.handle("PrincipalRegistered"))
	a.dispatcher.Subscribe(events.EventPrincipalLoggedIn, a.handle("PrincipalLoggedIn"))
	a.dispatcher.Subscribe(events.EventSessionsRevoked, a.handle("SessionsRevoked"))
	a.dispatcher.Subscribe(events.EventProductCreated, a.handle("ProductCreated"))
	a.dispatcher.Subscribe(events.EventProductDeleted, a.handle("ProductDeleted"))
}

func (a *AuditService) handle(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		a.logger.Info(name,
			zap.String("event_id", event.ID),
			zap.String("store", string(event.Actor.Store)),
			zap.Int64("principal_id", event.Actor.PrincipalID),
			zap.Any("payload", event.Payload),
		)
		return nil
	}
}
