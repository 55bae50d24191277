package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/yndnr/pollrelay-go/internal/core/service"
	"github.com/yndnr/pollrelay-go/internal/infra/buildinfo"
	"github.com/yndnr/pollrelay-go/internal/infra/confloader"
	"github.com/yndnr/pollrelay-go/internal/infra/shutdown"
	"github.com/yndnr/pollrelay-go/internal/server/config"
	"github.com/yndnr/pollrelay-go/internal/server/httpserver"
	"github.com/yndnr/pollrelay-go/internal/server/localserver"
	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
	"github.com/yndnr/pollrelay-go/internal/telemetry/metric"
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
		fmt.Printf("pollrelay-server %s\n", buildinfo.String())
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

	log.Info("starting pollrelay-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	metrics := metric.NewRegistry()

	engine := service.New(cfg.Session.Timeout,
		service.WithLogger(log),
		service.WithMetrics(metrics),
	)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Engine:      engine,
		Metrics:     metrics,
		Logger:      log,
		AdminToken:  cfg.Security.AdminToken,
		RateLimit:   cfg.Limits.RateLimit,
		EnableAudit: true,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping session engine")
		engine.Close()
		return nil
	})

	// Optional Unix socket management surface.
	if cfg.Server.Local.Path != "" {
		localSrv := localserver.New(cfg.Server.Local.Path, localserver.NewHandler(engine), log)
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down local server")
			return localSrv.Shutdown(ctx)
		})
		go func() {
			if err := localSrv.ListenAndServe(); err != nil {
				log.Error("local server error", "error", err)
			}
		}()
	}

	// Watch the config file so log level changes apply without restart.
	if *configFile != "" {
		watcher := confloader.NewWatcher(*configFile, func(path string) {
			reloaded, err := loadConfig(path)
			if err != nil {
				log.Warn("config reload rejected", "error", err)
				return
			}
			logger.SetLevel(reloaded.Log.Level)
			log.Info("log level applied", "level", reloaded.Log.Level)
		}, log)
		if err := watcher.Start(context.Background()); err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				watcher.Stop()
				return nil
			})
		}
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
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

// initLogger initializes the structured logger.
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
