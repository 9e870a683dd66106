package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/pocketbank/pocketbank/internal/bank"
	"github.com/pocketbank/pocketbank/internal/config"
	"github.com/pocketbank/pocketbank/internal/events"
	"github.com/pocketbank/pocketbank/internal/handlers"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/internal/repository"
	"github.com/pocketbank/pocketbank/internal/session"
	"github.com/pocketbank/pocketbank/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer kv.Close()
	log.Printf("using %s store", cfg.StoreBackend)

	var pub events.Publisher = events.Nop{}
	if cfg.NatsURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to NATS: %v", err)
		}
		pub = natsPub
		log.Println("connected to NATS")
	}
	defer pub.Close()

	repo := repository.NewKVRepository(kv)
	sessions := session.NewManager(kv, repo, session.PlaintextVerifier{})
	svc := bank.NewService(repo, pub)
	handler := handlers.New(svc, sessions)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("pocketbank listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
	log.Println("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemory(), nil
	case "redis":
		return store.NewRedis(ctx, cfg.RedisAddr)
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.Ping(); err != nil {
			return nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.Init(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return store.NewFile(cfg.DataFile)
	}
}
