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

	"github.com/google/uuid"

	"vidscope/internal/auth"
	"vidscope/internal/models"
	"vidscope/internal/server"
	"vidscope/internal/service"
	"vidscope/internal/store"
	"vidscope/shared/ai"
	"vidscope/shared/config"
	"vidscope/shared/logger"
	"vidscope/shared/platform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(&cfg.Database, lg)
	if err != nil {
		lg.Fatal("failed to open store", "error", err)
	}

	client, err := platform.NewClient(ctx, &cfg.YouTube, lg)
	if err != nil {
		lg.Fatal("failed to create platform client", "error", err)
	}

	analyzer := ai.NewAnalyzer(ctx, &cfg.AI, lg)
	svc := service.New(client, st, analyzer, lg)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTTLMin)*time.Minute)

	if err := seedAdmin(st, lg); err != nil {
		lg.Fatal("failed to seed admin user", "error", err)
	}

	handlers := server.NewHandlers(svc, st, tokens, lg)
	router := server.NewRouter(handlers, tokens, cfg.Server.Mode)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		lg.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown failed", "error", err)
	}
}

// seedAdmin creates an initial admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no user with that email exists yet. Without the
// variables the instance starts with no accounts.
func seedAdmin(st *store.Store, lg *logger.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	if _, err := st.UserByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := st.CreateUser(user); err != nil {
		return err
	}
	lg.Info("seeded admin user", "email", email)
	return nil
}
