package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventProjectCreated, n.handleLogged("ProjectCreated"))
	n.dispatcher.Subscribe(events.EventMemberAdded, n.handleLogged("MemberAdded"))
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleNotified("TicketCreated"))
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleNotified("TicketStatusChanged"))
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleNotified("TicketAssigned"))
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleNotified("CommentAdded"))
}

func (n *NotificationService) handleLogged(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(name, zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
		return nil
	}
}

func (n *NotificationService) handleNotified(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(name, zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
		n.sendEmailNotificationStub(ctx, event)
		n.sendWebhookNotificationStub(ctx, event)
		return nil
	}
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
