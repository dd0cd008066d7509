// File: internal/services/store/seed.go
package store

import (
	"fmt"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
)

// BuildSeedData fabricates the demo data set: SeedChats chats and
// SeedMessages messages distributed round-robin across them. Message
// timestamps step backwards from now so that a chat's ts values increase
// strictly with the message index, and each chat's LastMessageAt lands on
// the ts of the last message assigned to it.
func BuildSeedData(cfg *Config, now int64) ([]*domain.Chat, []*domain.Message) {
	chats := make([]*domain.Chat, 0, cfg.SeedChats)
	for i := 1; i <= cfg.SeedChats; i++ {
		chats = append(chats, &domain.Chat{
			ID:            fmt.Sprintf("chat-%d", i),
			Title:         fmt.Sprintf("Secure Chat %d", i),
			LastMessageAt: now - int64(i)*1000,
			UnreadCount:   0,
		})
	}

	messages := make([]*domain.Message, 0, cfg.SeedMessages)
	for i := 1; i <= cfg.SeedMessages; i++ {
		chat := chats[i%len(chats)]
		ts := now - int64(cfg.SeedMessages-i)*500
		sender := "Bob"
		if i%2 == 0 {
			sender = "Alice"
		}
		messages = append(messages, &domain.Message{
			ID:     fmt.Sprintf("msg-%d", i),
			ChatID: chat.ID,
			Ts:     ts,
			Sender: sender,
			Body:   fmt.Sprintf("Seed message %d", i),
		})
		chat.LastMessageAt = ts
	}

	return chats, messages
}
