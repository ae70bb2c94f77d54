package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mdabutalebdev/cv-maker/internal/attachments"
	"github.com/mdabutalebdev/cv-maker/internal/config"
	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/observability"
	"github.com/mdabutalebdev/cv-maker/internal/storage"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
)

// app holds the components every subcommand opens.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	catalog   *labels.Catalog
	backend   storage.Backend
	snapshots *storage.Snapshots
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CVMAKER_CONFIG")
	}
	cfg, err := config.Load(path, os.LookupEnv)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func loadCatalog(cfg config.Config) (*labels.Catalog, error) {
	catalog, err := labels.New(cfg.Language, cfg.LocaleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	return catalog, nil
}

// openApp loads configuration and connects the storage backend.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := storage.New(ctx, cfg.Storage, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}
	logger.Debug("storage opened", "backend", cfg.Storage, "key", cfg.StorageKey)

	return &app{
		cfg:       cfg,
		logger:    logger,
		catalog:   catalog,
		backend:   backend,
		snapshots: storage.NewSnapshots(backend, cfg.StorageKey),
	}, nil
}

// session rehydrates the wizard. opts fields left zero are filled from config.
func (a *app) session(ctx context.Context, opts wizard.Options) (*wizard.Session, error) {
	opts.Snapshots = a.snapshots
	opts.Catalog = a.catalog
	opts.Logger = a.logger
	opts.StrictJumps = a.cfg.StrictJumps
	opts.JobSearchURL = a.cfg.JobSearchURL
	opts.LaTeXTemplate = a.cfg.LaTeXTemplate
	if opts.Start == 0 {
		opts.Start = a.cfg.StartAt()
	}
	if opts.Renderer == nil {
		opts.Renderer = export.NewChromeRenderer(a.cfg.ChromeTimeoutDuration(), a.logger.With("component", "chrome"))
	}
	if opts.Attachments == nil && a.cfg.AttachmentDir != "" {
		store, err := attachments.NewStore(a.cfg.AttachmentDir, attachments.DefaultMaxSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open attachment store: %w", err)
		}
		opts.Attachments = store
	}
	return wizard.New(ctx, opts), nil
}

func (a *app) Close() error {
	return a.backend.Close()
}
