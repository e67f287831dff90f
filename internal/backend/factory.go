// Package backend wires a ledger repository from configuration:
// memory for development, sqlite (optionally with a spreadsheet
// mirror), or sheets as the primary store.
package backend

import (
	"context"
	"fmt"

	"contabot/internal/amqp"
	"contabot/internal/config"
	"contabot/internal/ledger"
	"contabot/internal/log"
	"contabot/internal/sheets"
	"contabot/internal/storage"
)

// Result bundles the assembled repository with its cleanup.
type Result struct {
	Repo    ledger.Repository
	Cleanup func() error
}

// Build assembles the repository named by cfg.DataBackend.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentBackend)

	switch cfg.DataBackend {
	case "memory":
		logger.Info("initialized memory backend")
		return &Result{
			Repo:    ledger.NewMemoryRepository(),
			Cleanup: func() error { return nil },
		}, nil

	case "sqlite":
		return buildSQLite(ctx, cfg, logger)

	case "sheets":
		client, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize sheets backend: %w", err)
		}
		logger.Info("initialized sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return &Result{
			Repo:    client,
			Cleanup: func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func buildSQLite(_ context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	// AMQP mirroring is optional; without it the sqlite backend is
	// simply local-only.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without spreadsheet mirror", log.FieldError, err)
			amqpClient = nil
		} else {
			logger.Info("initialized mirror publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	var result ledger.Repository = repo
	if amqpClient != nil {
		result = amqp.NewMirroringRepository(repo, amqpClient, logger)
	}

	logger.Info("initialized sqlite backend",
		"db_path", cfg.SQLiteDBPath,
		"mirror_enabled", amqpClient != nil)

	return &Result{
		Repo: result,
		Cleanup: func() error {
			if amqpClient != nil {
				amqpClient.Close()
			}
			return repo.Close()
		},
	}, nil
}
