// File: internal/services/store_service_test.go
package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
	"github.com/Ayaf-Bless/secureChat/internal/services/store"
)

func newTestStore(t *testing.T, cfg *store.Config) (*StoreService, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)

	svc, err := NewStoreService(db, cfg, &NoOpLogger{})
	require.NoError(t, err)
	require.NoError(t, svc.Initialize())

	return svc, db
}

func createChat(t *testing.T, db *gorm.DB, id, title string, lastMessageAt int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Chat{
		ID:            id,
		Title:         title,
		LastMessageAt: lastMessageAt,
	}).Error)
}

func TestInsertMessageUpdatesOwningChat(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)

	msg := domain.Message{ID: "m1", ChatID: "chat-a", Ts: 5000, Sender: "Alice", Body: "hello"}
	require.NoError(t, svc.InsertMessage(ctx, msg))

	chat, err := svc.GetChat(ctx, "chat-a")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), chat.LastMessageAt)
	assert.Equal(t, 1, chat.UnreadCount)

	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m2", ChatID: "chat-a", Ts: 6000, Sender: "Bob", Body: "hi"}))
	chat, err = svc.GetChat(ctx, "chat-a")
	require.NoError(t, err)
	assert.Equal(t, 2, chat.UnreadCount)
}

func TestInsertMessageRejectsUnknownChat(t *testing.T) {
	svc, _ := newTestStore(t, nil)
	ctx := context.Background()

	err := svc.InsertMessage(ctx, domain.Message{ID: "m1", ChatID: "nope", Ts: 1, Sender: "Alice", Body: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrReferentialIntegrity))
}

func TestInsertMessageRoundTrip(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)

	msg := domain.Message{ID: "m1", ChatID: "chat-a", Ts: 42, Sender: "Mallory", Body: "round trip"}
	require.NoError(t, svc.InsertMessage(ctx, msg))

	got, err := svc.GetMessages(ctx, "chat-a", 10, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, msg, got[0])
}

// lastMessageAt tracks insertion order, not ts order: a late-arriving
// message with an older ts still moves the chat timestamp to its own ts.
func TestLastMessageAtFollowsInsertionOrder(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)

	for i, ts := range []int64{100, 200, 150} {
		require.NoError(t, svc.InsertMessage(ctx, domain.Message{
			ID: []string{"m1", "m2", "m3"}[i], ChatID: "chat-a", Ts: ts, Sender: "Alice", Body: "x",
		}))
	}

	chat, err := svc.GetChat(ctx, "chat-a")
	require.NoError(t, err)
	assert.Equal(t, int64(150), chat.LastMessageAt)

	msgs, err := svc.GetMessages(ctx, "chat-a", 10, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, int64(200), msgs[0].Ts)
	assert.Equal(t, int64(150), msgs[1].Ts)
	assert.Equal(t, int64(100), msgs[2].Ts)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)
	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m1", ChatID: "chat-a", Ts: 1, Sender: "Alice", Body: "x"}))

	require.NoError(t, svc.MarkRead(ctx, "chat-a"))
	chat, err := svc.GetChat(ctx, "chat-a")
	require.NoError(t, err)
	assert.Equal(t, 0, chat.UnreadCount)

	require.NoError(t, svc.MarkRead(ctx, "chat-a"))
	chat, err = svc.GetChat(ctx, "chat-a")
	require.NoError(t, err)
	assert.Equal(t, 0, chat.UnreadCount)

	// Unknown chat is a no-op, not an error.
	require.NoError(t, svc.MarkRead(ctx, "missing"))
}

func TestGetMessagesCursorPagination(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)

	for i := int64(1); i <= 10; i++ {
		require.NoError(t, svc.InsertMessage(ctx, domain.Message{
			ID: "m" + string(rune('a'+i-1)), ChatID: "chat-a", Ts: i * 100, Sender: "Alice", Body: "x",
		}))
	}

	beforeTs := int64(700)
	msgs, err := svc.GetMessages(ctx, "chat-a", 3, &beforeTs)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, msg := range msgs {
		assert.Less(t, msg.Ts, beforeTs)
		if i > 0 {
			assert.Greater(t, msgs[i-1].Ts, msg.Ts)
		}
	}
	assert.Equal(t, int64(600), msgs[0].Ts)
}

func TestSeedIfEmpty(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.SeedChats = 5
	cfg.SeedMessages = 20
	cfg.SeedBatchSize = 10
	svc, _ := newTestStore(t, cfg)
	ctx := context.Background()

	seeded, err := svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	chats, err := svc.GetChats(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, chats, 5)

	// Each chat's lastMessageAt must match its last-seeded message.
	for _, chat := range chats {
		msgs, err := svc.GetMessages(ctx, chat.ID, 1, nil)
		require.NoError(t, err)
		require.NotEmpty(t, msgs, "chat %s has no messages", chat.ID)
		assert.Equal(t, msgs[0].Ts, chat.LastMessageAt, "chat %s", chat.ID)
	}

	// A second call is a no-op.
	seeded, err = svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	chats, err = svc.GetChats(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, chats, 5)
}

func TestSeedResetsExistingData(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.SeedChats = 3
	cfg.SeedMessages = 9
	cfg.SeedBatchSize = 5
	svc, db := newTestStore(t, cfg)
	ctx := context.Background()

	createChat(t, db, "stale", "Stale Chat", 999)
	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "stale-m", ChatID: "stale", Ts: 1, Sender: "Alice", Body: "x"}))

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	chats, err := svc.GetChats(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, chats, 3)
	_, err = svc.GetChat(ctx, "stale")
	assert.Error(t, err)
}

func TestGetChatsOrdering(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "old", "Old", 100)
	createChat(t, db, "new", "New", 300)
	createChat(t, db, "mid", "Mid", 200)

	chats, err := svc.GetChats(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "new", chats[0].ID)
	assert.Equal(t, "mid", chats[1].ID)

	chats, err = svc.GetChats(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "old", chats[0].ID)
}

func TestSearchMessages(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)
	createChat(t, db, "chat-b", "Chat B", 0)

	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m1", ChatID: "chat-a", Ts: 100, Sender: "Alice", Body: "deploy the fix"}))
	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m2", ChatID: "chat-a", Ts: 200, Sender: "Bob", Body: "fix merged"}))
	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m3", ChatID: "chat-b", Ts: 300, Sender: "Bob", Body: "fix elsewhere"}))

	msgs, err := svc.SearchMessages(ctx, "chat-a", "fix")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "m1", msgs[1].ID)
}

// The search query is wrapped in LIKE wildcards without escaping, so % and
// _ in the query act as pattern characters. This pins that behavior.
func TestSearchMessagesWildcardsAreNotEscaped(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)

	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m1", ChatID: "chat-a", Ts: 100, Sender: "Alice", Body: "release v10"}))
	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m2", ChatID: "chat-a", Ts: 200, Sender: "Bob", Body: "release v20"}))

	msgs, err := svc.SearchMessages(ctx, "chat-a", "v_0")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestChatUpdateSubscription(t *testing.T) {
	svc, db := newTestStore(t, nil)
	ctx := context.Background()
	createChat(t, db, "chat-a", "Chat A", 0)

	updates := svc.Subscribe()
	defer svc.Unsubscribe(updates)

	require.NoError(t, svc.InsertMessage(ctx, domain.Message{ID: "m1", ChatID: "chat-a", Ts: 500, Sender: "Alice", Body: "x"}))

	select {
	case chat := <-updates:
		assert.Equal(t, "chat-a", chat.ID)
		assert.Equal(t, int64(500), chat.LastMessageAt)
		assert.Equal(t, 1, chat.UnreadCount)
	default:
		t.Fatal("expected a chat update after insert")
	}

	require.NoError(t, svc.MarkRead(ctx, "chat-a"))
	select {
	case chat := <-updates:
		assert.Equal(t, 0, chat.UnreadCount)
	default:
		t.Fatal("expected a chat update after mark-read")
	}
}
