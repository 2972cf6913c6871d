package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/messenger/frontend/internal/api"
	"github.com/messenger/frontend/internal/config"
	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/storage"
	"github.com/messenger/frontend/internal/store"
	"github.com/messenger/frontend/internal/tui"
)

func main() {
	os.Exit(run())
}

// run возвращает код выхода; отложенные закрытия выполняются до os.Exit.
func run() int {
	logger.SetPrefix("client")
	mode := flag.String("mode", "", "auth mode: mock or remote (overrides AUTH_MODE)")
	flag.Parse()

	cfg := config.Load()
	if *mode != "" {
		cfg.Client.AuthMode = config.AuthMode(*mode)
	}

	// Терминал занят интерфейсом: лог пишется в файл или отбрасывается.
	logOut, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		return 1
	}
	defer closeLog()
	logger.SetOutput(logOut)
	logger.Infof("starting client (auth mode %s)", cfg.Client.AuthMode)
	logger.SetLevel(cfg.LogLevel)

	opts := store.Options{
		SimulatedDelay:   cfg.Client.SimulatedDelay,
		ReadReceiptDelay: cfg.Client.ReadReceiptDelay,
		TypingWindow:     cfg.Client.TypingWindow,
		TypingDuration:   cfg.Client.TypingDuration,
	}

	switch cfg.Client.AuthMode {
	case config.AuthRemote:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		tokens, err := storage.Open(ctx, cfg.TokenStore)
		cancel()
		if err != nil {
			logger.Errorf("token store: %v", err)
			fmt.Fprintf(os.Stderr, "token store: %v\n", err)
			return 1
		}
		defer tokens.Close()
		client := api.New(cfg.Client.APIBaseURL, tokens, cfg.Client.RequestTimeout)
		opts.Auth, opts.Loader, opts.Backend, opts.Chats = client, client, client, client
		// задержку даёт сеть
		opts.SimulatedDelay = 0
		logger.Infof("api: %s, token store: %s", cfg.Client.APIBaseURL, cfg.TokenStore.Kind)
	default:
		opts.Auth = store.NewMockAuthenticator(cfg.Client.MockPassword, nil)
	}

	s := store.New(opts)
	defer s.Close()

	if err := tui.Run(s); err != nil {
		logger.Errorf("tui: %v", err)
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		return 1
	}
	logger.Info("client stopped")
	return 0
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
