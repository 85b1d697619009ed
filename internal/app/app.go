package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"stb-telemetry/internal/batchers"
	"stb-telemetry/internal/codecs"
	"stb-telemetry/internal/events"
	internalhttp "stb-telemetry/internal/http"
	"stb-telemetry/internal/ingestors"
	"stb-telemetry/internal/shared/configs"
	"stb-telemetry/internal/shared/filestorages"
	"stb-telemetry/internal/shared/loggers"
	"stb-telemetry/internal/stores"
	"stb-telemetry/internal/symbols"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server
	engine    batchers.Engine
	identity  batchers.Identity
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "stb-telemetry").
		Logger()

	identity, err := identityFromConfig(config.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity: %w", err)
	}

	fileStorage, err := filestorages.NewFileStorage(config.FileStorage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	schema := symbols.V1()
	codec := codecs.NewCBORCodec()
	registry := events.NewRegistry()

	batchStore := stores.NewBatchFileStore(fileStorage, config.FileStorage.BatchDir)
	var contextStore stores.DeviceContextStore
	if config.FileStorage.KeepDeviceContext {
		contextStore = stores.NewDeviceContextStore(fileStorage, codec, schema)
	}

	engineLogger := appLogger.With().Str(loggers.FieldComponent, "engine").Logger()
	engine := batchers.NewEngine(batchers.Config{
		MaxEvents:     config.Batching.MaxEvents,
		SendPeriod:    config.Batching.SendPeriod,
		QueueCapacity: config.Batching.QueueCapacity,
		PollInterval:  config.Batching.PollInterval,
	}, registry, codec, schema, batchStore, contextStore, engineLogger)

	ingestionService := ingestors.NewIngestionService(registry, schema, engine, config.Server.MaxBodyBytes)

	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(ingestionService, engine, httpLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
		engine:    engine,
		identity:  identity,
	}, nil
}

// Start starts the engine, then serves HTTP in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting stb-telemetry on port %d (log_level=%s, file_storage_root_dir=%s, max_events=%d, send_period=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.FileStorage.RootDir,
			app.config.Batching.MaxEvents,
			app.config.Batching.SendPeriod)

	ctx := app.appLogger.WithContext(context.Background())
	if err := app.startEngine(ctx); err != nil {
		return err
	}
	return app.server.ListenAndServe()
}

// startEngine starts the consumer and opens a fresh set of sessions for this boot.
func (app *App) startEngine(ctx context.Context) error {
	app.engine.Start(ctx)
	if err := app.engine.ClearState(ctx, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reset sessions: %w", err)
	}
	if err := app.engine.SetIdentity(ctx, app.identity); err != nil {
		return fmt.Errorf("failed to set identity: %w", err)
	}
	return nil
}

// EngineDone is closed once the engine has stopped, after Shutdown or a fatal failure.
func (app *App) EngineDone() <-chan struct{} {
	return app.engine.Done()
}

// EngineErr reports the failure that stopped the engine, if any.
func (app *App) EngineErr() error {
	return app.engine.Err()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Stop accepting requests
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Flush what is buffered and stop the consumer
	if err := app.engine.Stop(ctx); err != nil {
		return fmt.Errorf("engine stop failed: %w", err)
	}
	app.appLogger.Info().Strs("batch_files", app.engine.BatchFiles()).Msg("Engine stopped")
	return nil
}

func identityFromConfig(cfg configs.IdentityConfig) (batchers.Identity, error) {
	hardwareID, err := hex.DecodeString(cfg.HardwareID)
	if err != nil {
		return batchers.Identity{}, fmt.Errorf("hardware_id: %w", err)
	}
	var amsID []byte
	if cfg.AmsID != "" {
		if amsID, err = hex.DecodeString(cfg.AmsID); err != nil {
			return batchers.Identity{}, fmt.Errorf("ams_id: %w", err)
		}
	}
	return batchers.Identity{
		DeviceName:      cfg.DeviceName,
		HardwareVersion: cfg.HardwareVersion,
		HardwareID:      hardwareID,
		SoftwareVersion: cfg.SoftwareVersion,
		ClientID:        cfg.ClientID,
		CardID:          cfg.CardID,
		AmsID:           amsID,
		AmsPanel:        cfg.AmsPanel,
	}, nil
}
