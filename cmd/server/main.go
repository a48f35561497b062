package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/example/partstock/internal/api"
	"github.com/example/partstock/internal/auth"
	"github.com/example/partstock/internal/infrastructure/guard"
	"github.com/example/partstock/internal/infrastructure/sheet"
	"github.com/example/partstock/internal/stockroom"
)

const writeLockKey = "partstock:write-lock"

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenAddr := getEnv("LISTEN_ADDR", ":8080")
	workbookPath := getEnv("WORKBOOK_PATH", "partstock.xlsx")
	redisAddr := os.Getenv("REDIS_ADDR")
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("[Server] SESSION_SECRET environment variable is required")
	}
	if len(sessionSecret) < 32 {
		log.Fatal("[Server] SESSION_SECRET must be at least 32 characters long")
	}

	log.Println("[Server] ========================================")
	log.Println("[Server] partstock - inventory store API")
	log.Println("[Server] ========================================")
	log.Printf("[Server] Workbook: %s", workbookPath)

	wb, err := openWorkbook(workbookPath)
	if err != nil {
		log.Fatalf("[Server] Failed to open workbook: %v", err)
	}
	defer wb.Close()

	var (
		locker guard.Locker
		cache  guard.Cache
	)
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("[Server] Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		locker = guard.NewRedisLocker(rdb, writeLockKey)
		cache = guard.NewRedisCache(rdb)
		log.Printf("[Server] Redis: %s (write lock + read cache)", redisAddr)
	} else {
		locker = guard.NewLocalLocker()
		cache = guard.NoopCache{}
		log.Println("[Server] Redis not configured; in-process write lock, no read cache")
	}

	svc := stockroom.NewService(wb, locker, cache)
	tokens := auth.NewTokenService(sessionSecret, 12*time.Hour)
	handlers := api.NewHandlers(svc, tokens)
	router := api.NewRouter(handlers, tokens)

	server := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[Server] Listening on %s", listenAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Server] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Server] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

// openWorkbook opens an existing workbook, creating a fresh one (headers
// only) when the file does not exist yet.
func openWorkbook(path string) (*sheet.Workbook, error) {
	wb, err := sheet.Open(path)
	if err == nil {
		return wb, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[Server] Workbook %s not found, creating it", path)
		return sheet.Create(path)
	}
	return nil, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
