package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"credikhaata/internal/config"
	khaataHttp "credikhaata/internal/http"
	authHandler "credikhaata/internal/http/auth"
	customerHandler "credikhaata/internal/http/customer"
	importHandler "credikhaata/internal/http/importcsv"
	loanHandler "credikhaata/internal/http/loan"
	statementHandler "credikhaata/internal/http/statement"
	"credikhaata/internal/importer"
	"credikhaata/internal/ledger"
	"credikhaata/internal/session"
	"credikhaata/internal/statement"
	"credikhaata/internal/storage"
	"credikhaata/internal/storage/file"
	"credikhaata/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	port, err := openStorage(cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	ledgerService, err := ledger.New(ctx, port)
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	var (
		guard            = session.New(ctx, port, session.Credentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password}, cfg.Auth.JWTSecret)
		statementService = statement.NewService(ledgerService, cfg.Statement.OutputDir)
		importService    = importer.NewService(ledgerService)
	)

	var (
		authH      = authHandler.NewHandler(guard)
		customerH  = customerHandler.NewHandler(ledgerService)
		loanH      = loanHandler.NewHandler(ledgerService)
		statementH = statementHandler.NewHandler(ledgerService, statementService)
		importH    = importHandler.NewHandler(importService)
	)

	router := khaataHttp.New(authH, customerH, loanH, statementH, importH, guard.Middleware(logger))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr, "storage", cfg.Storage.Driver)

	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func openStorage(cfg *config.Config) (storage.Port, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.New(cfg.ConnectionString())
	case "file":
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}

		return file.New(dir)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}
