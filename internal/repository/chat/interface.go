// File: internal/repository/chat/interface.go
package chat

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

// ChatRepository handles chat data operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) error
	CreateInBatch(ctx context.Context, chats []*domain.Chat, batchSize int) error
	FindByID(ctx context.Context, chatID string) (*domain.Chat, error)
	FindPage(ctx context.Context, limit, offset int) ([]domain.Chat, error)
	ExistsByID(ctx context.Context, chatID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	RecordActivity(ctx context.Context, chatID string, ts int64) error
	MarkRead(ctx context.Context, chatID string) error
	DeleteAll(ctx context.Context) error
}
