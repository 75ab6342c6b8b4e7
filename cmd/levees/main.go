// Command levees reads the levees table once and writes the JSON-LD,
// GeoJSON, HTML and iCalendar artifacts.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/couchcryptid/levee-files/internal/adapter/bucket"
	"github.com/couchcryptid/levee-files/internal/adapter/csvfile"
	"github.com/couchcryptid/levee-files/internal/adapter/filesystem"
	kafkaadapter "github.com/couchcryptid/levee-files/internal/adapter/kafka"
	"github.com/couchcryptid/levee-files/internal/adapter/postgres"
	"github.com/couchcryptid/levee-files/internal/config"
	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/observability"
	"github.com/couchcryptid/levee-files/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, cfg, logger, metrics)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile", "error", err)
		}
	}
	if runErr != nil {
		logger.Error("run aborted", "error", runErr)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	tf, err := domain.LoadTimeFormatter(cfg.Timezone)
	if err != nil {
		return err
	}
	page, err := cfg.LoadPage()
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Mapper:       domain.NewMapper(tf, cfg.Year, cfg.CalendarID),
		Names:        cfg.Names,
		Page:         page,
		CalendarName: cfg.CalendarName,
	}

	extractor, closeSource, err := newExtractor(ctx, cfg, tf, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	loader, closeLoaders, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLoaders()

	var clock clockwork.Clock = clockwork.NewRealClock()
	if !cfg.BuildTimestamp.IsZero() {
		clock = clockwork.NewFakeClockAt(cfg.BuildTimestamp)
	}

	return pipeline.New(extractor, loader, opts, clock, logger, metrics).Run(ctx)
}

func newExtractor(ctx context.Context, cfg *config.Config, tf domain.TimeFormatter, logger *slog.Logger) (pipeline.Extractor, func(), error) {
	if cfg.Source == config.SourceCSV {
		logger.Info("reading levees from csv", "path", cfg.CSVPath)
		return csvfile.NewSource(cfg.CSVPath, tf), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("reading levees from postgres")
	return postgres.NewSource(db, logger), closeWith(logger, "database", db), nil
}

func newLoader(cfg *config.Config, logger *slog.Logger) (pipeline.Loader, func(), error) {
	loaders := pipeline.MultiLoader{filesystem.NewWriter(cfg.OutputDir, logger)}
	closers := []func(){}

	if cfg.MinioEnabled() {
		up, err := bucket.New(bucket.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Prefix:    cfg.MinioPrefix,
			Secure:    cfg.MinioSecure,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("bucket loader: %w", err)
		}
		loaders = append(loaders, up)
		logger.Info("bucket publishing enabled", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
	}

	if cfg.KafkaEnabled() {
		w := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		loaders = append(loaders, w)
		closers = append(closers, closeWith(logger, "kafka writer", w))
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	return loaders, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func closeWith(logger *slog.Logger, what string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Error(what+" close error", "error", err)
		}
	}
}
