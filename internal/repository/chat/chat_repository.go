// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db     *gorm.DB
	logger Logger
}

func NewChatRepository(db *gorm.DB, logger Logger) ChatRepository {
	return &gormChatRepository{db: db, logger: logger}
}

func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	if err := r.validateChatInput(chat); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		r.logger.Error("database error creating chat", "chat_id", chat.ID, "error", err)
		return fmt.Errorf("database error creating chat: %w", err)
	}
	return nil
}

// CreateInBatch inserts chats in batches; used by the seed pass.
func (r *gormChatRepository) CreateInBatch(ctx context.Context, chats []*domain.Chat, batchSize int) error {
	if len(chats) == 0 {
		return nil
	}
	if batchSize <= 0 || batchSize > 1000 {
		batchSize = 100
	}

	for _, chat := range chats {
		if err := r.validateChatInput(chat); err != nil {
			return fmt.Errorf("validation failed for chat %q: %w", chat.ID, err)
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(chats, batchSize).Error; err != nil {
		r.logger.Error("batch chat creation failed", "count", len(chats), "error", err)
		return fmt.Errorf("database error creating chats in batch: %w", err)
	}
	return nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, "id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		r.logger.Error("database error finding chat", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("database error finding chat: %w", err)
	}
	return &chat, nil
}

// FindPage returns a window of chats ordered by most recent activity.
// Offset windows may shift when inserts land between two calls; callers
// accept that for chat list paging.
func (r *gormChatRepository) FindPage(ctx context.Context, limit, offset int) ([]domain.Chat, error) {
	if limit <= 0 || limit > 1000 {
		return nil, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, errors.New("invalid offset: must be >= 0")
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Order("last_message_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&chats).Error
	if err != nil {
		r.logger.Error("database error in paginated chat query", "limit", limit, "offset", offset, "error", err)
		return nil, fmt.Errorf("database error retrieving chats: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) ExistsByID(ctx context.Context, chatID string) (bool, error) {
	if chatID == "" {
		return false, errors.New("invalid chat ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", chatID).Count(&count).Error
	if err != nil {
		r.logger.Error("database error checking chat existence", "chat_id", chatID, "error", err)
		return false, fmt.Errorf("database error checking chat existence: %w", err)
	}
	return count > 0, nil
}

func (r *gormChatRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Chat{}).Count(&count).Error; err != nil {
		r.logger.Error("database error counting chats", "error", err)
		return 0, fmt.Errorf("database error counting chats: %w", err)
	}
	return count, nil
}

// RecordActivity moves the chat's lastMessageAt to ts and bumps the unread
// counter in a single UPDATE. The timestamp follows insertion order, not ts
// order: a late-arriving older message still wins.
func (r *gormChatRepository) RecordActivity(ctx context.Context, chatID string, ts int64) error {
	if chatID == "" {
		return errors.New("invalid chat ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{
			"last_message_at": ts,
			"unread_count":    gorm.Expr("unread_count + 1"),
		})
	if result.Error != nil {
		r.logger.Error("database error recording chat activity", "chat_id", chatID, "error", result.Error)
		return fmt.Errorf("database error recording chat activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// MarkRead resets the unread counter. A missing chat is a no-op.
func (r *gormChatRepository) MarkRead(ctx context.Context, chatID string) error {
	if chatID == "" {
		return errors.New("invalid chat ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Update("unread_count", 0)
	if result.Error != nil {
		r.logger.Error("database error marking chat read", "chat_id", chatID, "error", result.Error)
		return fmt.Errorf("database error marking chat read: %w", result.Error)
	}
	return nil
}

// DeleteAll removes every chat. Only the demo reset path uses this.
func (r *gormChatRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Chat{}).Error; err != nil {
		r.logger.Error("database error deleting all chats", "error", err)
		return fmt.Errorf("database error deleting chats: %w", err)
	}
	return nil
}

func (r *gormChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.ID == "" {
		return errors.New("chat ID is required")
	}
	if len(chat.Title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	if chat.UnreadCount < 0 {
		return errors.New("unread count cannot be negative")
	}
	return nil
}
