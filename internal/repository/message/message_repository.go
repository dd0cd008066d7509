// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db     *gorm.DB
	logger Logger
}

func NewMessageRepository(db *gorm.DB, logger Logger) MessageRepository {
	return &gormMessageRepository{db: db, logger: logger}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := r.validateMessageInput(message); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		r.logger.Error("database error creating message", "message_id", message.ID, "chat_id", message.ChatID, "error", err)
		return fmt.Errorf("database error creating message: %w", err)
	}
	return nil
}

// CreateInBatch inserts messages in batches; used by the seed pass.
func (r *gormMessageRepository) CreateInBatch(ctx context.Context, messages []*domain.Message, batchSize int) error {
	if len(messages) == 0 {
		return nil
	}
	if batchSize <= 0 || batchSize > 1000 {
		batchSize = 100
	}

	for _, msg := range messages {
		if err := r.validateMessageInput(msg); err != nil {
			return fmt.Errorf("validation failed for message %q: %w", msg.ID, err)
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(messages, batchSize).Error; err != nil {
		r.logger.Error("batch message creation failed", "count", len(messages), "error", err)
		return fmt.Errorf("database error creating messages in batch: %w", err)
	}
	return nil
}

// FindByChatID returns up to limit messages ordered by ts descending.
// A non-nil beforeTs restricts results to messages strictly older than it,
// giving stable backward pagination under concurrent inserts.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID string, limit int, beforeTs *int64) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}
	if limit <= 0 || limit > 1000 {
		return nil, errors.New("invalid limit: must be between 1 and 1000")
	}

	query := r.db.WithContext(ctx).Where("chat_id = ?", chatID)
	if beforeTs != nil {
		query = query.Where("ts < ?", *beforeTs)
	}

	var messages []domain.Message
	err := query.Order("ts DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		r.logger.Error("database error in paginated message query", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("database error retrieving messages: %w", err)
	}
	return messages, nil
}

// SearchBody matches message bodies with a LIKE '%query%' filter. The query
// is not escaped, so % and _ act as wildcards; callers rely on that staying
// stable.
func (r *gormMessageRepository) SearchBody(ctx context.Context, chatID, query string, limit int) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var messages []domain.Message
	searchPattern := fmt.Sprintf("%%%s%%", query)
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND body LIKE ?", chatID, searchPattern).
		Order("ts DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		r.logger.Error("database error searching message bodies", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("database error searching messages: %w", err)
	}
	return messages, nil
}

func (r *gormMessageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Count(&count).Error; err != nil {
		r.logger.Error("database error counting messages", "error", err)
		return 0, fmt.Errorf("database error counting messages: %w", err)
	}
	return count, nil
}

// DeleteAll removes every message. Only the demo reset path uses this.
func (r *gormMessageRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Message{}).Error; err != nil {
		r.logger.Error("database error deleting all messages", "error", err)
		return fmt.Errorf("database error deleting messages: %w", err)
	}
	return nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ID == "" {
		return errors.New("message ID is required")
	}
	if message.ChatID == "" {
		return errors.New("chat ID is required")
	}
	if len(message.Body) > 10000 {
		return errors.New("message body too long (max 10000 characters)")
	}
	return nil
}
