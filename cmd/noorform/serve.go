package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/noorform/internal/config"
	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
	"github.com/vango-dev/noorform/pkg/server"
	"github.com/vango-dev/noorform/pkg/sink"
	"github.com/vango-dev/noorform/pkg/telemetry"
)

type serveOptions struct {
	configPath string
	dir        string
	addr       string
	locale     string
	sinkKind   string
	dev        bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the form server",
		Long: `Start the HTTP and WebSocket form server.

Settings come from noorform.json (or noorform.yaml) in --dir,
then NOORFORM_* environment variables, then flags.

Examples:
  noorform serve
  noorform serve --addr=0.0.0.0:9000 --locale=ar
  noorform serve --config=deploy/noorform.yaml --sink=s3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd.Flags().Changed("dev"))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := buildServer(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default noorform.json in --dir)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory searched for the config file")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address host:port")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Fallback locale: en or ar")
	cmd.Flags().StringVar(&opts.sinkKind, "sink", "", "Submission sink: log, s3 or file")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Development mode")

	return cmd
}

// loadConfig layers the config file, the environment and flags.
func loadConfig(opts serveOptions, devSet bool) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadFile(opts.configPath)
	case config.Exists(opts.dir):
		cfg, err = config.Load(opts.dir)
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}

	if opts.addr != "" {
		if err := cfg.SetAddress(opts.addr); err != nil {
			return nil, err
		}
	}
	if opts.locale != "" {
		cfg.Locale = opts.locale
	}
	if opts.sinkKind != "" {
		cfg.Sink.Kind = opts.sinkKind
	}
	if devSet {
		cfg.DevMode = opts.dev
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	locale, err := catalog.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	submit, err := newSubmit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics(telemetry.WithNamespace(cfg.Metrics.Namespace))
	}

	return server.New(server.Config{
		Address:         cfg.Address(),
		Registry:        catalog.Default(),
		Locale:          locale,
		DevMode:         cfg.DevMode,
		Submit:          submit,
		Metrics:         metrics,
		MetricsPath:     cfg.Metrics.Path,
		Tracing:         cfg.Tracing.Enabled,
		TracerName:      cfg.Tracing.TracerName,
		IdleTimeout:     cfg.IdleTimeout(),
		MaxMessageBytes: cfg.Session.MaxMessageBytes,
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Logger:          logger,
	}), nil
}

func newSubmit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(string) form.SubmitFunc, error) {
	switch cfg.Sink.Kind {
	case config.SinkS3:
		client, err := sink.NewS3Client(ctx, cfg.Sink.S3.Region)
		if err != nil {
			return nil, err
		}
		logger.Info("storing submissions in s3", "bucket", cfg.Sink.S3.Bucket, "prefix", cfg.Sink.S3.Prefix)
		return sink.NewS3Sink(client, cfg.Sink.S3.Bucket, cfg.Sink.S3.Prefix).For, nil
	case config.SinkFile:
		s, err := sink.NewFileSink(cfg.Sink.Dir)
		if err != nil {
			return nil, err
		}
		logger.Info("storing submissions on disk", "dir", cfg.Sink.Dir)
		return s.For, nil
	case config.SinkLog, "":
		return sink.NewLogSink(logger).For, nil
	default:
		return nil, ferrors.New("F100").WithDetail(fmt.Sprintf("Unknown sink %q", cfg.Sink.Kind))
	}
}
