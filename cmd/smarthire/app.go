package main

import (
	"context"
	"fmt"

	"github.com/jonathan/smarthire/internal/agents"
	"github.com/jonathan/smarthire/internal/config"
	"github.com/jonathan/smarthire/internal/kv"
	"github.com/jonathan/smarthire/internal/llm"
	"github.com/jonathan/smarthire/internal/logging"
	"github.com/jonathan/smarthire/internal/notify"
	"github.com/jonathan/smarthire/internal/recruiting"
	"github.com/jonathan/smarthire/internal/store"
	"go.uber.org/zap"
)

// app holds everything a command needs, built from the loaded configuration.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	kv     kv.Store
	client llm.Client
	notify *notify.Emitter
	svc    *recruiting.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend, err := kv.Open(ctx, cfg.Storage.KV())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		llmCfg := llm.DefaultConfig().WithModel(llm.TierStandard, cfg.Agents.Model)
		llmCfg.Temperature = cfg.Agents.Temperature
		client, err = llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to create model client: %w", err)
		}
	} else {
		logger.Warn("no API key configured; assistant actions will fail until GEMINI_API_KEY is set")
	}

	st := store.Open(ctx, backend, store.Options{
		Logger:       logger.Named("store"),
		WriteTimeout: cfg.Storage.WriteTimeout,
	})
	emitter := notify.New(notify.Options{
		ToastTTL: cfg.Notify.ToastTTL,
		Logger:   logger.Named("notify"),
	})
	ag := agents.New(client, agents.Options{Logger: logger.Named("agents")})

	svc := recruiting.New(st, emitter, ag, recruiting.Options{
		Logger:        logger.Named("recruiting"),
		AgentTimeout:  cfg.Agents.Timeout,
		MaxConcurrent: int64(cfg.Agents.MaxConcurrent),
		UsageLimit:    cfg.Usage.Limit,
	})

	return &app{
		cfg:    cfg,
		log:    logger,
		kv:     backend,
		client: client,
		notify: emitter,
		svc:    svc,
	}, nil
}

// Close releases the model client, the emitter and the storage backend.
func (a *app) Close() {
	a.notify.Close()
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.log.Warn("failed to close model client", zap.Error(err))
		}
	}
	if err := a.kv.Close(); err != nil {
		a.log.Warn("failed to close storage", zap.Error(err))
	}
	_ = a.log.Sync()
}
