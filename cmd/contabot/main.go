package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contabot/internal/ai"
	"contabot/internal/backend"
	"contabot/internal/bot"
	"contabot/internal/config"
	apphttp "contabot/internal/http"
	"contabot/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.ValidateServer(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := backend.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("backend cleanup failed", log.FieldError, err)
		}
	}()

	classifier, err := ai.NewClassifier(ctx, ai.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize classifier", log.FieldError, err)
		os.Exit(1)
	}

	assistant := bot.NewAssistant(classifier, result.Repo, logger)

	var sender apphttp.Sender
	if cfg.WhatsAppToken != "" && cfg.WhatsAppPhoneID != "" {
		sender = apphttp.NewGraphSender(cfg.WhatsAppAPIBase, cfg.WhatsAppPhoneID, cfg.WhatsAppToken)
	} else {
		logger.Warn("no channel credentials configured, logging outbound replies")
		sender = &apphttp.LogSender{Logger: logger}
	}

	srv := apphttp.NewServer(":"+cfg.Port, assistant, sender, cfg.WhatsAppVerifyToken, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting contabot server",
		"port", cfg.Port,
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
