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

	"github.com/campusmind/backend/internal/config"
	"github.com/campusmind/backend/internal/handler"
	"github.com/campusmind/backend/internal/service/ai"
	"github.com/campusmind/backend/internal/service/assistant"
	"github.com/campusmind/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, closeStore, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}
	defer closeStore()

	completer, err := ai.NewCompleter(ctx, cfg.AI)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		log.Printf("warning: %s credentials missing, chat turns will return the fallback reply", cfg.AI.Provider)
		completer = ai.UnavailableCompleter{}
	case err != nil:
		log.Printf("warning: failed to initialize AI provider %s: %v", cfg.AI.Provider, err)
		completer = ai.UnavailableCompleter{}
	default:
		log.Printf("AI provider %s initialized with model %s", cfg.AI.Provider, cfg.AI.Model)
	}

	svc := assistant.New(store, completer)
	router := handler.NewRouter(svc)

	startServer(ctx, cfg.Server, router)
}

// newSessionStore builds the configured backend. The memory backend gets a
// janitor goroutine bound to ctx.
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (chat.Store, func(), error) {
	storeCfg := chat.StoreConfig{TTL: cfg.TTL, MaxSessions: cfg.MaxSessions}

	if cfg.Backend == config.BackendRedis {
		client, err := chat.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		store := chat.NewRedisStore(client, storeCfg)
		log.Printf("session store: redis at %s, ttl=%s", cfg.RedisAddr, cfg.TTL)
		return store, func() { _ = store.Close() }, nil
	}

	store := chat.NewMemoryStore(storeCfg)
	go store.Run(ctx, cfg.SweepInterval)
	log.Printf("session store: memory, ttl=%s max=%d", cfg.TTL, cfg.MaxSessions)
	return store, func() {}, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Mindy backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
