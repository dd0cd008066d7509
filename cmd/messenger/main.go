// File: cmd/messenger/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Ayaf-Bless/secureChat/internal/config"
	"github.com/Ayaf-Bless/secureChat/internal/services"
	"github.com/Ayaf-Bless/secureChat/internal/services/store"
	syncsvc "github.com/Ayaf-Bless/secureChat/internal/services/sync"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("secure-messenger")

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	// --- Store ---
	storeCfg := store.DefaultConfig()
	storeCfg.SeedChats = cfg.SeedChats
	storeCfg.SeedMessages = cfg.SeedMessages

	storeService, err := services.NewStoreService(db, storeCfg, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Store Service: %v", err)
	}
	if err := storeService.Initialize(); err != nil {
		log.Fatalf("FATAL: Schema initialization failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := storeService.SeedIfEmpty(ctx); err != nil {
		log.Fatalf("FATAL: Seeding failed: %v", err)
	}

	// --- Sync Endpoint ---
	serverCfg := syncsvc.DefaultServerConfig()
	serverCfg.Port = cfg.SyncPort

	syncServer, err := syncsvc.NewServer(serverCfg, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Sync Server: %v", err)
	}

	chats, err := storeService.GetChats(ctx, cfg.SeedChats, 0)
	if err != nil {
		log.Fatalf("FATAL: Could not load working chat set: %v", err)
	}
	chatIDs := make([]string, 0, len(chats))
	for _, chat := range chats {
		chatIDs = append(chatIDs, chat.ID)
	}
	if err := syncServer.Start(chatIDs); err != nil {
		log.Fatalf("FATAL: Sync server startup failed: %v", err)
	}

	// --- Sync Client ---
	clientCfg := syncsvc.DefaultClientConfig()
	clientCfg.URL = fmt.Sprintf("ws://127.0.0.1:%d/ws", syncServer.Port())

	syncClient, err := syncsvc.NewClient(clientCfg, storeService, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Sync Client: %v", err)
	}
	syncClient.SetConnectionDropper(syncServer)
	syncClient.SetStatusListener(func(status syncsvc.Status) {
		logger.Info("connection status changed", "status", string(status))
	})

	messenger, err := services.NewMessengerService(storeService, syncServer, syncClient, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Messenger Service: %v", err)
	}

	updates := messenger.SubscribeChatUpdates()
	go func() {
		for chat := range updates {
			logger.Debug("chat updated", "chat_id", chat.ID, "unread", chat.UnreadCount)
		}
	}()
	go func() {
		for note := range messenger.Notifications() {
			logger.Debug("live message received", "chat_id", note.ChatID, "message_id", note.Message.ID)
		}
	}()

	go func() {
		if err := syncClient.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("sync client stopped unexpectedly", "error", err)
		}
	}()

	logger.Info("secure messenger core started",
		"sync_port", messenger.SyncPort(),
		"db_path", cfg.DBPath,
		"environment", cfg.Environment,
	)

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	messenger.UnsubscribeChatUpdates(updates)
	if err := syncServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Sync server shutdown failed: %v", err)
	}
	logger.Info("stopped gracefully")
}
