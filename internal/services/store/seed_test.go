// File: internal/services/store/seed_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeedDataShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedChats = 4
	cfg.SeedMessages = 12

	now := int64(1_000_000)
	chats, messages := BuildSeedData(cfg, now)

	require.Len(t, chats, 4)
	require.Len(t, messages, 12)

	// ts values increase strictly with message index within each chat,
	// and every chat's LastMessageAt lands on its last message's ts.
	lastTs := make(map[string]int64)
	for _, msg := range messages {
		if prev, ok := lastTs[msg.ChatID]; ok {
			assert.Greater(t, msg.Ts, prev)
		}
		lastTs[msg.ChatID] = msg.Ts
	}
	for _, chat := range chats {
		assert.Equal(t, lastTs[chat.ID], chat.LastMessageAt, "chat %s", chat.ID)
	}
}

func TestBuildSeedDataRoundRobin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedChats = 3
	cfg.SeedMessages = 9

	chats, messages := BuildSeedData(cfg, 500_000)

	perChat := make(map[string]int)
	for _, msg := range messages {
		perChat[msg.ChatID]++
	}
	for _, chat := range chats {
		assert.Equal(t, 3, perChat[chat.ID], "chat %s", chat.ID)
	}
}
