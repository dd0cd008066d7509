// File: internal/services/store_service.go
package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
	chatrepo "github.com/Ayaf-Bless/secureChat/internal/repository/chat"
	messagerepo "github.com/Ayaf-Bless/secureChat/internal/repository/message"
	"github.com/Ayaf-Bless/secureChat/internal/services/store"
)

// StoreService owns all chat and message persistence. It is the single
// writer for the underlying database handle: the sync client and UI-driven
// calls serialize through its write mutex, while reads go straight to the
// repositories.
type StoreService struct {
	config      *store.Config
	db          *gorm.DB
	chatRepo    chatrepo.ChatRepository
	messageRepo messagerepo.MessageRepository
	logger      Logger

	writeMu sync.Mutex

	subMu       sync.RWMutex
	subscribers map[chan domain.Chat]struct{}
}

func NewStoreService(db *gorm.DB, config *store.Config, logger Logger) (*StoreService, error) {
	if db == nil {
		return nil, store.NewValidationError("constructor", "database handle is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if config == nil {
		config = store.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, store.NewValidationError("config", err.Error())
	}

	return &StoreService{
		config:      config,
		db:          db,
		chatRepo:    chatrepo.NewChatRepository(db, logger),
		messageRepo: messagerepo.NewMessageRepository(db, logger),
		logger:      logger,
		subscribers: make(map[chan domain.Chat]struct{}),
	}, nil
}

// Initialize idempotently ensures the persistent schema exists. Failures
// here are unrecoverable storage-medium problems and must stop startup.
func (s *StoreService) Initialize() error {
	if err := s.db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		s.logger.Error("schema migration failed", "error", err)
		return store.NewStorageError("initialize", "could not ensure schema", err)
	}
	return nil
}

// SeedIfEmpty populates the demo data set inside a single transaction when
// no chats exist yet. Returns whether seeding occurred.
func (s *StoreService) SeedIfEmpty(ctx context.Context) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.seedIfEmptyLocked(ctx)
}

func (s *StoreService) seedIfEmptyLocked(ctx context.Context) (bool, error) {
	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chats := chatrepo.NewChatRepository(tx, s.logger)
		messages := messagerepo.NewMessageRepository(tx, s.logger)

		count, err := chats.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		chatRows, messageRows := store.BuildSeedData(s.config, time.Now().UnixMilli())
		if err := chats.CreateInBatch(ctx, chatRows, s.config.SeedBatchSize); err != nil {
			return err
		}
		if err := messages.CreateInBatch(ctx, messageRows, s.config.SeedBatchSize); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, store.NewStorageError("seed_if_empty", "seeding failed", err)
	}
	if seeded {
		s.logger.Info("seeded empty store", "chats", s.config.SeedChats, "messages", s.config.SeedMessages)
	}
	return seeded, nil
}

// Seed unconditionally clears the store and reseeds it. Destructive; only
// the demo reset path should call it.
func (s *StoreService) Seed(ctx context.Context) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chats := chatrepo.NewChatRepository(tx, s.logger)
		messages := messagerepo.NewMessageRepository(tx, s.logger)

		if err := messages.DeleteAll(ctx); err != nil {
			return err
		}
		if err := chats.DeleteAll(ctx); err != nil {
			return err
		}

		chatRows, messageRows := store.BuildSeedData(s.config, time.Now().UnixMilli())
		if err := chats.CreateInBatch(ctx, chatRows, s.config.SeedBatchSize); err != nil {
			return err
		}
		return messages.CreateInBatch(ctx, messageRows, s.config.SeedBatchSize)
	})
	if err != nil {
		return false, store.NewStorageError("seed", "reseeding failed", err)
	}
	s.logger.Info("reseeded store", "chats", s.config.SeedChats, "messages", s.config.SeedMessages)
	return true, nil
}

// GetChats returns a page of chats ordered by most recent activity.
func (s *StoreService) GetChats(ctx context.Context, limit, offset int) ([]domain.Chat, error) {
	return s.chatRepo.FindPage(ctx, limit, offset)
}

// GetChat is a point lookup; a missing chat yields chatrepo.ErrChatNotFound.
func (s *StoreService) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	return s.chatRepo.FindByID(ctx, chatID)
}

// GetMessages returns up to limit messages for the chat ordered by ts
// descending; a non-nil beforeTs restricts results to strictly older
// messages (cursor-based backward pagination).
func (s *StoreService) GetMessages(ctx context.Context, chatID string, limit int, beforeTs *int64) ([]domain.Message, error) {
	return s.messageRepo.FindByChatID(ctx, chatID, limit, beforeTs)
}

// SearchMessages runs a substring match over message bodies, capped at the
// configured result limit.
func (s *StoreService) SearchMessages(ctx context.Context, chatID, query string) ([]domain.Message, error) {
	return s.messageRepo.SearchBody(ctx, chatID, query, s.config.SearchLimit)
}

// InsertMessage validates that the owning chat exists, inserts the message,
// and moves the chat's lastMessageAt and unread counter, all in one
// transaction. Subscribers observe the updated chat after commit.
func (s *StoreService) InsertMessage(ctx context.Context, msg domain.Message) error {
	s.writeMu.Lock()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chats := chatrepo.NewChatRepository(tx, s.logger)
		messages := messagerepo.NewMessageRepository(tx, s.logger)

		exists, err := chats.ExistsByID(ctx, msg.ChatID)
		if err != nil {
			return err
		}
		if !exists {
			return store.NewReferentialIntegrityError(msg.ChatID)
		}

		if err := messages.Create(ctx, &msg); err != nil {
			return err
		}
		return chats.RecordActivity(ctx, msg.ChatID, msg.Ts)
	})
	s.writeMu.Unlock()
	if err != nil {
		return err
	}

	s.publishChatUpdate(ctx, msg.ChatID)
	return nil
}

// MarkRead resets the chat's unread counter. Unknown chats are a no-op and
// publish nothing.
func (s *StoreService) MarkRead(ctx context.Context, chatID string) error {
	s.writeMu.Lock()
	err := s.chatRepo.MarkRead(ctx, chatID)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}

	s.publishChatUpdate(ctx, chatID)
	return nil
}

// Subscribe registers a chat-updated stream for the UI layer. Slow
// consumers drop updates rather than block writers.
func (s *StoreService) Subscribe() chan domain.Chat {
	ch := make(chan domain.Chat, 16)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *StoreService) Unsubscribe(ch chan domain.Chat) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *StoreService) publishChatUpdate(ctx context.Context, chatID string) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		// Deleted or never existed; nothing to publish.
		return
	}

	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- *chat:
		default:
			s.logger.Warn("dropping chat update for slow subscriber", "chat_id", chat.ID)
		}
	}
}
