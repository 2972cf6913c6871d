package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/messenger/frontend/internal/config"
	"github.com/messenger/frontend/internal/fileserver"
	"github.com/messenger/frontend/internal/handler"
	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/repository"
	"github.com/messenger/frontend/internal/seed"
	"github.com/messenger/frontend/internal/service"
)

func main() {
	logger.SetPrefix("api")
	addr := flag.String("addr", "", "listen address (overrides SERVER_ADDR)")
	flag.Parse()

	logger.Info("starting API service")
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	demo, err := seed.Load()
	if err != nil {
		logger.Errorf("load seed: %v", err)
		os.Exit(1)
	}
	userRepo := repository.NewUserRepository()
	chatRepo := repository.NewChatRepository()
	msgRepo := repository.NewMessageRepository()
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = repository.Seed(seedCtx, demo, time.Now(), userRepo, chatRepo, msgRepo)
	seedCancel()
	if err != nil {
		logger.Errorf("seed repositories: %v", err)
		os.Exit(1)
	}
	logger.Infof("repositories seeded: %d users, %d chats", len(demo.Users)+1, len(demo.Chats))

	tokens := service.NewTokenService(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	r := handler.NewRouter(handler.Deps{
		Users:              userRepo,
		Chats:              chatRepo,
		Messages:           msgRepo,
		Auth:               service.NewAuthService(userRepo, tokens, cfg.Client.MockPassword),
		Tokens:             tokens,
		Files:              fileserver.New(cfg.Server.UploadDir, cfg.Server.MaxUploadSize),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		AccessLog:          true,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var srvWg sync.WaitGroup
	errCh := make(chan error, 1)
	srvWg.Add(1)
	go func() {
		defer srvWg.Done()
		logger.Infof("server listening on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	logger.Info("server stopped accepting connections")
	srvWg.Wait()
	logger.Info("server goroutine exited")
}
