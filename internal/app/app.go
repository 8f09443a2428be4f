package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"brt/internal/config"
	"brt/internal/connectivity"
	"brt/internal/logging"
	"brt/internal/paths"
	"brt/internal/reference"
	"brt/internal/storage"
	"brt/internal/storage/sqlite"
	apperrors "brt/pkg/errors"
)

// App represents the application context
type App struct {
	Storage   storage.Storage
	Config    config.Config
	Reference *reference.Material
	Logger    *zap.Logger
	Paths     Paths
}

// Options are the global CLI flags
type Options struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	LogFile    string
	Verbose    bool
}

// Paths records where the application keeps its files
type Paths struct {
	Config string
	DB     string
}

// New creates a new application instance
func New(opts Options) (*App, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		dir, err := paths.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		configPath = filepath.Join(dir, "config.yaml")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dataDir, err := paths.DataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "brt.db")
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Persisted settings win over the config file.
	settings, err := store.GetAllSettings(context.Background())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg, err = cfg.Apply(settings)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to apply settings: %w", err)
	}

	levelName := cfg.LogLevel
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	if opts.Verbose {
		levelName = "debug"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		store.Close()
		return nil, err
	}
	logFile := cfg.LogFile
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}
	logger, err := logging.New(level, logFile)
	if err != nil {
		store.Close()
		return nil, err
	}

	material, err := reference.Load(cfg.ReferenceFile)
	if err != nil {
		logger.Warn("falling back to built-in reference material",
			zap.String("file", cfg.ReferenceFile), zap.Error(err))
		material = reference.Default()
	}

	return &App{
		Storage:   store,
		Config:    cfg,
		Reference: material,
		Logger:    logger,
		Paths:     Paths{Config: configPath, DB: dbPath},
	}, nil
}

// Notifier builds the connectivity source described by the configuration.
// The returned stop function must be called once the notifier is no longer
// needed. With probing disabled, a notifier that never fires is returned and
// the optimistic default stays in place.
func (a *App) Notifier(ctx context.Context) (connectivity.Notifier, func(), error) {
	if !a.Config.ProbeEnabled {
		a.Logger.Info("probing disabled")
		return connectivity.NewManualNotifier(), func() {}, nil
	}

	prober := connectivity.NewProber(a.Config.ProbeConfig(), a.Logger)
	if err := prober.Start(ctx); err != nil {
		if !errors.Is(err, apperrors.ErrNoProbeTargets) {
			return nil, nil, fmt.Errorf("failed to start prober: %w", err)
		}
		// Subscribe reports the same failure; the observer's failure
		// policy decides what the user sees.
		a.Logger.Warn("prober has no targets")
		return prober, func() {}, nil
	}
	return prober, func() {
		if err := prober.Stop(); err != nil {
			a.Logger.Warn("failed to stop prober", zap.Error(err))
		}
	}, nil
}

// ObserverOptions returns observer options wired to the app logger.
func (a *App) ObserverOptions(source string) connectivity.Options {
	opts := a.Config.ObserverOptions()
	opts.Source = source
	opts.Logger = a.Logger
	return opts
}

// Close closes the application and releases resources
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Sync()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
