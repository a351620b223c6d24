package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MarkoPoloResearchLab/innkeeper/internal/config"
	"github.com/MarkoPoloResearchLab/innkeeper/internal/database"
	"github.com/MarkoPoloResearchLab/innkeeper/internal/httpapi"
	"github.com/MarkoPoloResearchLab/innkeeper/internal/logging"
	"github.com/MarkoPoloResearchLab/innkeeper/internal/oplog"
	"github.com/MarkoPoloResearchLab/innkeeper/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/innkeeper/internal/store/pgstore"
	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix = "HOTELD"

	flagConfig           = "config"
	flagDatabaseURL      = "database-url"
	flagStoreDriver      = "store-driver"
	flagListenAddr       = "listen-addr"
	flagAllowedOrigins   = "allowed-origins"
	flagTimezone         = "timezone"
	flagLogLevel         = "log-level"
	flagLogFormat        = "log-format"
	flagLogFile          = "log-file"
	flagLogMaxSizeMB     = "log-max-size-mb"
	flagLogMaxBackups    = "log-max-backups"
	flagLogMaxAgeDays    = "log-max-age-days"
	flagMetricsNamespace = "metrics-namespace"
	flagShutdownTimeout  = "shutdown-timeout"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hoteld: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	settings := viper.New()
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "hoteld",
		Short:         "Hotel booking engine HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, settings)
			if err != nil {
				return err
			}
			*cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to a YAML, TOML or JSON config file")
	flags.String(flagDatabaseURL, defaults.DatabaseURL, "Database url (postgres://... or sqlite://path)")
	flags.String(flagStoreDriver, defaults.StoreDriver, "Store implementation: gorm or pgx")
	flags.String(flagListenAddr, defaults.ListenAddr, "HTTP listen address")
	flags.String(flagAllowedOrigins, "", "Comma-separated CORS origins")
	flags.String(flagTimezone, defaults.Timezone, "IANA zone that decides the current date")
	flags.String(flagLogLevel, defaults.LogLevel, "Log level")
	flags.String(flagLogFormat, defaults.LogFormat, "Log format: json or console")
	flags.String(flagLogFile, "", "Optional rotated log file")
	flags.Int(flagLogMaxSizeMB, defaults.LogMaxSizeMB, "Log file size before rotation")
	flags.Int(flagLogMaxBackups, defaults.LogMaxBackups, "Rotated log files to keep")
	flags.Int(flagLogMaxAgeDays, defaults.LogMaxAgeDays, "Days to keep rotated log files")
	flags.String(flagMetricsNamespace, defaults.MetricsNamespace, "Prometheus metric namespace")
	flags.Duration(flagShutdownTimeout, defaults.ShutdownTimeout, "Graceful shutdown timeout")

	cmd.AddCommand(newServeCommand(cfg), newMigrateCommand(cfg))
	return cmd
}

func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the hotel API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}
}

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *cfg)
		},
	}
}

func loadConfig(cmd *cobra.Command, settings *viper.Viper) (config.Config, error) {
	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	if err := settings.BindEnv(flagDatabaseURL, envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return config.Config{}, err
	}
	if err := settings.BindPFlags(cmd.Flags()); err != nil {
		return config.Config{}, err
	}

	if path := settings.GetString(flagConfig); path != "" {
		settings.SetConfigFile(path)
		if err := settings.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := config.Config{
		DatabaseURL:      settings.GetString(flagDatabaseURL),
		StoreDriver:      settings.GetString(flagStoreDriver),
		ListenAddr:       settings.GetString(flagListenAddr),
		AllowedOrigins:   config.ParseAllowedOrigins(settings.GetString(flagAllowedOrigins)),
		Timezone:         settings.GetString(flagTimezone),
		LogLevel:         settings.GetString(flagLogLevel),
		LogFormat:        settings.GetString(flagLogFormat),
		LogFile:          settings.GetString(flagLogFile),
		LogMaxSizeMB:     settings.GetInt(flagLogMaxSizeMB),
		LogMaxBackups:    settings.GetInt(flagLogMaxBackups),
		LogMaxAgeDays:    settings.GetInt(flagLogMaxAgeDays),
		MetricsNamespace: settings.GetString(flagMetricsNamespace),
		ShutdownTimeout:  settings.GetDuration(flagShutdownTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	return logger, nil
}

func runMigrate(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, driver, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	if err := database.PrepareSchema(gormDB); err != nil {
		return err
	}
	logger.Info("schema ready", zap.String("driver", driver))
	return nil
}

func runServe(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, driver, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	if err := database.PrepareSchema(gormDB); err != nil {
		return err
	}

	var store hotel.Store = gormstore.New(gormDB)
	if cfg.StoreDriver == config.StoreDriverPgx {
		pool, err := database.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.New(pool)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := oplog.NewMetrics(cfg.MetricsNamespace, registry)
	if err != nil {
		return fmt.Errorf("metrics init: %w", err)
	}

	location, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := func() int64 { return time.Now().UTC().Unix() }
	service, err := hotel.NewService(store, clock,
		hotel.WithOperationLogger(oplog.Multi{oplog.NewZapLogger(logger), metrics}),
		hotel.WithLocation(location),
	)
	if err != nil {
		return fmt.Errorf("hotel service init: %w", err)
	}

	router, err := httpapi.NewRouter(httpapi.Config{
		Service:        service,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,
		Gatherer:       registry,
	})
	if err != nil {
		return err
	}

	logger.Info("hoteld starting",
		zap.String("driver", driver),
		zap.String("store", cfg.StoreDriver),
		zap.String("timezone", cfg.Timezone),
	)
	return httpapi.Run(ctx, cfg.ListenAddr, cfg.ShutdownTimeout, router, logger)
}
