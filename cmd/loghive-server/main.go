package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ohrn/loghive-go/internal/core/miner"
	"github.com/ohrn/loghive-go/internal/core/profiler"
	"github.com/ohrn/loghive-go/internal/infra/buildinfo"
	"github.com/ohrn/loghive-go/internal/infra/confloader"
	"github.com/ohrn/loghive-go/internal/infra/shutdown"
	"github.com/ohrn/loghive-go/internal/server/config"
	"github.com/ohrn/loghive-go/internal/server/httpserver"
	"github.com/ohrn/loghive-go/internal/storage"
	"github.com/ohrn/loghive-go/internal/storage/badgerstore"
	"github.com/ohrn/loghive-go/internal/storage/filestore"
	"github.com/ohrn/loghive-go/internal/storage/kafkastore"
	"github.com/ohrn/loghive-go/internal/storage/memstore"
	"github.com/ohrn/loghive-go/internal/storage/redisstore"
	"github.com/ohrn/loghive-go/internal/telemetry/logger"
	"github.com/ohrn/loghive-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("loghive-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting loghive-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	safe := config.Sanitize(cfg)
	log.Debug("effective configuration",
		"storage_backend", safe.Storage.Backend,
		"snapshot_compress", safe.Snapshot.Compress,
		"snapshot_key", safe.Snapshot.EncryptionKey,
		"http_addr", safe.Server.HTTP.Addr)

	ctx := context.Background()

	store, closeStore, err := initStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	mets := metric.NewRegistry()

	// Recovery runs inside miner.New: the newest snapshot is loaded,
	// decoded and the engine restored before the first line is accepted.
	m, err := initMiner(ctx, cfg, store, mets, log)
	if err != nil {
		return fmt.Errorf("init miner: %w", err)
	}

	log.Info("mining pipeline ready",
		"run_id", m.RunID(),
		"clusters", m.ClusterCount(),
		"backend", cfg.Storage.Backend)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Miner:     m,
		Metrics:   mets,
		Logger:    log,
		RateLimit: cfg.Server.HTTP.RateLimit,
		RateBurst: cfg.Server.HTTP.RateBurst,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Hooks run in reverse registration order: stop accepting traffic,
	// flush a final snapshot, then release the store.
	if closeStore != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("closing snapshot store")
			return closeStore()
		})
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("flushing final snapshot")
		return m.Snapshot(ctx, "shutdown")
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	watcher, err := watchConfig(*configFile, log)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the optional config file and LOGHIVE_
// environment variables, then validates the result.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// initStore builds the snapshot store named by storage.backend. The
// returned close function is nil for stores that hold no resources.
func initStore(ctx context.Context, cfg *config.ServerConfig, log logger.Logger) (storage.Handler, func() error, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return memstore.New(), nil, nil

	case "file":
		store, err := filestore.New(cfg.Storage.File.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case "badger":
		store, err := badgerstore.New(badgerstore.Config{
			Dir:        cfg.Storage.Badger.Dir,
			SyncWrites: cfg.Storage.Badger.SyncWrites,
			Logger:     log,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case "redis":
		store, err := redisstore.New(ctx, redisstore.Config{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Key:      cfg.Storage.Redis.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case "kafka":
		store, err := kafkastore.New(kafkastore.Config{
			Brokers:  cfg.Storage.Kafka.Brokers,
			Topic:    cfg.Storage.Kafka.Topic,
			ClientID: cfg.Storage.Kafka.ClientID,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func initMiner(ctx context.Context, cfg *config.ServerConfig, store storage.Handler, mets *metric.Registry, log logger.Logger) (*miner.Miner, error) {
	codec, err := cfg.BuildCodec()
	if err != nil {
		return nil, err
	}

	masker, err := cfg.BuildMasker()
	if err != nil {
		return nil, err
	}

	prof := profiler.Nop()
	if cfg.Profiling.Enabled {
		prof = profiler.NewSimple(log)
	}

	opts := []miner.Option{
		miner.WithStore(store, codec),
		miner.WithProfiler(prof),
		miner.WithMetrics(mets),
	}
	if masker != nil {
		opts = append(opts, miner.WithMasker(masker))
	}

	return miner.New(ctx, cfg.MinerConfig(), log, opts...)
}

// watchConfig reloads the log level when the config file changes. Other
// settings require a restart. Returns nil when no file is configured.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	if configFile == "" {
		return nil, nil
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed, keeping current settings", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			log.Info("log level changed", "level", cfg.Log.Level)
			logger.SetLevel(cfg.Log.Level)
		}
	})
	watcher.StartAsync()

	return watcher, nil
}
