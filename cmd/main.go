package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-hub/api"
	"chat-hub/hub"
	"chat-hub/internal"
	"chat-hub/repositories"
	"chat-hub/search"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer executes before the process
// exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (optional)
	var index *search.Index
	if config.BlugeFilepath != "" {
		index, err = search.Open(log, config.BlugeFilepath)
		if err != nil {
			return fmt.Errorf("search index opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing search index...")
			_ = index.Close()
		}()
	}

	// 4. Repositories & Hub
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	roomRepository := repositories.NewRoomRepository(db)
	userRepository := repositories.NewUserRepository(db)

	if err = seedRooms(roomRepository); err != nil {
		return fmt.Errorf("room seeding failed: %w", err)
	}

	bus := hub.NewBus(log, config.BusBufferSize)
	presence := hub.NewPresence()
	cache := hub.NewAccessCache(log, userRepository, roomRepository)
	notifier := hub.NewNotifier(log, bus, cache)

	// Assign only when the index exists: wrapping a nil *search.Index in the
	// interface would defeat the gate's nil check.
	var indexer hub.MessageIndexer
	if index != nil {
		indexer = index
	}
	gate := hub.NewGate(log, bus, presence, cache,
		roomRepository, messageRepository, indexer)

	// 5. HTTP routing
	router := mux.NewRouter()
	router.Handle("/ws", gate)
	handlers := api.NewHandlers(log, messageRepository, roomRepository,
		userRepository, presence, notifier, index)
	handlers.Register(router)

	// 6. Debug server (optional)
	if config.DebugPort != 0 {
		internal.StartDebugServer(log, db, config.DebugPort, func() map[string]any {
			return map[string]any{
				"subscribers": bus.SubscriberCount(),
				"online":      len(presence.Snapshot()),
			}
		})
	}

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting hub server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}

// seedRooms guarantees the default rooms exist so a fresh install is usable
// without the admin API. Existing records are overwritten with the same
// values, which keeps restarts idempotent.
func seedRooms(rooms repositories.RoomRepository) error {
	defaults := []repositories.Room{
		{ID: "general", Name: "General", Kind: "text", RequiredRole: "user"},
		{ID: "random", Name: "Random", Kind: "text", RequiredRole: "user"},
		{ID: "voice-lobby", Name: "Voice Lobby", Kind: "voice", RequiredRole: "user"},
	}
	for _, room := range defaults {
		room.CreatedAt = time.Now().UTC()
		if err := rooms.UpsertRoom(room); err != nil {
			return err
		}
	}
	return nil
}
