package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catty/internal/amqp"
	"catty/internal/chat"
	"catty/internal/cli"
	"catty/internal/config"
	"catty/internal/core"
	apphttp "catty/internal/http"
	applog "catty/internal/log"
	"catty/internal/services"
	"catty/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The broker is optional: without it writes still land in SQLite and
	// the worker's pending scan handles the backlog.
	var publisher *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		publisher, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, sync events disabled", "error", err)
		} else {
			defer publisher.Close()
		}
	}

	transactions := newTransactionService(repo, publisher)
	defer transactions.Close()

	settings := services.NewSettingsService(repo)
	if _, err := settings.Load(context.Background(), core.DateOf(time.Now())); err != nil {
		logger.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}

	chatSvc := newChatService(cfg, logger)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions: transactions,
		Settings:     settings,
		Categories:   services.NewCategoryService(repo),
		Chat:         chatSvc,
		Logger:       logger,
	})
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting catty server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func newTransactionService(repo *storage.SQLiteRepository, publisher *amqp.Client) *services.TransactionService {
	if publisher == nil {
		// A typed nil would dodge the service's nil check.
		return services.NewTransactionService(repo, nil)
	}
	return services.NewTransactionService(repo, publisher)
}

func newChatService(cfg *config.Config, logger *applog.Logger) *chat.Service {
	client, err := chat.NewGeminiClient(context.Background(), cfg.GeminiModel)
	if err != nil {
		logger.Warn("Gemini unavailable, chat will serve the fallback reply", "error", err)
		return chat.NewService(nil, cfg.ChatTimeout)
	}
	return chat.NewService(client, cfg.ChatTimeout)
}
