// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	CreateInBatch(ctx context.Context, messages []*domain.Message, batchSize int) error
	FindByChatID(ctx context.Context, chatID string, limit int, beforeTs *int64) ([]domain.Message, error)
	SearchBody(ctx context.Context, chatID, query string, limit int) ([]domain.Message, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}
