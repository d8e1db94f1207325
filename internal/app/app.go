package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafka_impl "pictiato/internal/broker/kafka"
	cacheredis "pictiato/internal/cache/redis"
	"pictiato/internal/config"
	asset_h "pictiato/internal/http-server/handler/asset"
	"pictiato/internal/http-server/router"
	postgres_repo "pictiato/internal/repository/asset/db/postgres"
	minio_repo "pictiato/internal/repository/blob/minio"
	"pictiato/internal/tenant"
	asset_uc "pictiato/internal/usecase/asset"
	"pictiato/internal/usecase/transform"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	db       *dbpg.DB
	store    *cacheredis.Store
	producer *kafka_impl.ProducerClient
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	blobRepo, err := minio_repo.NewBlobRepository(cfg, retries, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob repository: %w", err)
	}

	assetRepo := postgres_repo.NewAssetsRepository(db, retries)

	store := cacheredis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := store.Ping(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Redis unreachable at startup, derivative caching degraded")
	}

	registry := tenant.NewRegistry(cfg.Tenants.Secrets, cfg.Tenants.Watermarks)

	watermarker, err := transform.NewWatermarker()
	if err != nil {
		return nil, fmt.Errorf("failed to load watermark font: %w", err)
	}

	var producer *kafka_impl.ProducerClient
	var events asset_uc.EventPublisher
	if cfg.EventsEnabled() {
		producer = kafka_impl.NewProducerClient(cfg)
		events = producer
	}

	assetUsecase := asset_uc.NewAssetUsecase(
		registry,
		assetRepo,
		blobRepo,
		store,
		events,
		watermarker,
		logger,
		asset_uc.Options{
			DefaultTTL: cfg.Cache.DefaultTTL,
			CropAlign: transform.Options{
				AlignX: cfg.Transform.AlignX,
				AlignY: cfg.Transform.AlignY,
			},
		},
	)

	assetHandler := asset_h.NewAssetHandler(assetUsecase, cfg.HTTP.BaseURI, cfg.HTTP.SecretHeader, logger)

	h := &router.Handler{
		AssetHandler: assetHandler,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		db:       db,
		store:    store,
		producer: producer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		if a.db != nil && a.db.Master != nil {
			a.db.Master.Close()
		}

		if a.store != nil {
			a.store.Close()
		}

		if a.producer != nil {
			a.producer.Close()
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
