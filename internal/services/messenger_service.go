// File: internal/services/messenger_service.go
package services

import (
	"context"
	"errors"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
	syncsvc "github.com/Ayaf-Bless/secureChat/internal/services/sync"
)

// MessengerService is the command boundary the UI layer consumes: the store
// operations plus the administrative hooks that reach into the sync
// endpoint.
type MessengerService struct {
	store  *StoreService
	server *syncsvc.Server
	client *syncsvc.Client
	logger Logger
}

func NewMessengerService(store *StoreService, server *syncsvc.Server, client *syncsvc.Client, logger Logger) (*MessengerService, error) {
	if store == nil {
		return nil, errors.New("messenger service: store service is required")
	}
	if server == nil {
		return nil, errors.New("messenger service: sync server is required")
	}
	if client == nil {
		return nil, errors.New("messenger service: sync client is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &MessengerService{
		store:  store,
		server: server,
		client: client,
		logger: logger,
	}, nil
}

// Seed clears and repopulates the store (demo reset).
func (m *MessengerService) Seed(ctx context.Context) (bool, error) {
	return m.store.Seed(ctx)
}

func (m *MessengerService) SeedIfEmpty(ctx context.Context) (bool, error) {
	return m.store.SeedIfEmpty(ctx)
}

func (m *MessengerService) GetChats(ctx context.Context, limit, offset int) ([]domain.Chat, error) {
	return m.store.GetChats(ctx, limit, offset)
}

func (m *MessengerService) GetMessages(ctx context.Context, chatID string, limit int, beforeTs *int64) ([]domain.Message, error) {
	return m.store.GetMessages(ctx, chatID, limit, beforeTs)
}

func (m *MessengerService) SearchMessages(ctx context.Context, chatID, query string) ([]domain.Message, error) {
	return m.store.SearchMessages(ctx, chatID, query)
}

func (m *MessengerService) InsertMessage(ctx context.Context, msg domain.Message) error {
	return m.store.InsertMessage(ctx, msg)
}

func (m *MessengerService) MarkRead(ctx context.Context, chatID string) error {
	return m.store.MarkRead(ctx, chatID)
}

// SubscribeChatUpdates delivers a chat copy after any insert or mark-read
// that changes its observable fields.
func (m *MessengerService) SubscribeChatUpdates() chan domain.Chat {
	return m.store.Subscribe()
}

func (m *MessengerService) UnsubscribeChatUpdates(ch chan domain.Chat) {
	m.store.Unsubscribe(ch)
}

// Notifications is the inbound live-message stream from the sync client.
func (m *MessengerService) Notifications() <-chan syncsvc.Notification {
	return m.client.Notifications()
}

// ConnectionStatus reports the sync client's current state.
func (m *MessengerService) ConnectionStatus() syncsvc.Status {
	return m.client.Status()
}

// DropConnections forcibly closes every sync connection (chaos hook).
func (m *MessengerService) DropConnections() {
	m.logger.Info("forcing drop of all sync connections")
	m.server.DropConnections()
}

// SyncPort reports the endpoint's listening port for discovery.
func (m *MessengerService) SyncPort() int {
	return m.server.Port()
}
