package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/observability"
	"github.com/couchcryptid/levee-files/internal/output"
	"github.com/jonboulle/clockwork"
)

// Extractor is the record source. It returns active levees ordered by
// start date, end date, then name.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Levee, error)
}

// Loader writes one finalized artifact.
type Loader interface {
	Load(ctx context.Context, doc output.Document) error
}

// Pipeline runs one extract-transform-load pass.
type Pipeline struct {
	extractor Extractor
	loader    Loader
	opts      Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. The clock supplies the build timestamp.
func New(e Extractor, l Loader, opts Options, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		extractor: e,
		loader:    l,
		opts:      opts,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run drains the extractor once, builds every artifact and hands each to the
// loader. The first error aborts the run; artifacts already loaded stay.
func (p *Pipeline) Run(ctx context.Context) error {
	builtAt := p.clock.Now()
	p.logger.Info("run started", "built_at", builtAt, "zone", p.opts.Mapper.Time.Zone())

	levees, err := p.extractor.Extract(ctx)
	if err != nil {
		p.metrics.RunFailures.WithLabelValues("extract").Inc()
		return fmt.Errorf("extract levees: %w", err)
	}
	p.metrics.RecordsRead.Add(float64(len(levees)))

	artifacts, err := Transform(levees, p.opts, builtAt, p.logger)
	if err != nil {
		p.metrics.RunFailures.WithLabelValues("transform").Inc()
		return fmt.Errorf("transform levees: %w", err)
	}
	for _, s := range domain.AllStreams() {
		p.metrics.RecordsAdmitted.WithLabelValues(s.String()).Add(float64(artifacts.Admitted(s)))
	}

	for _, doc := range artifacts.Documents() {
		if err := p.loader.Load(ctx, doc); err != nil {
			p.metrics.RunFailures.WithLabelValues("load").Inc()
			return fmt.Errorf("load %s: %w", doc.Name(), err)
		}
		p.metrics.ArtifactsEmitted.WithLabelValues(doc.Name()).Inc()
		p.metrics.ArtifactBytes.WithLabelValues(doc.Name()).Set(float64(len(doc.Bytes())))
		p.logger.Info("artifact loaded", "name", doc.Name(), "bytes", len(doc.Bytes()))
	}

	elapsed := p.clock.Since(builtAt)
	p.metrics.RunDuration.Set(elapsed.Seconds())
	p.metrics.LastSuccess.Set(float64(p.clock.Now().Unix()))
	p.logger.Info("run complete",
		"records", len(levees),
		"skipped", artifacts.Skipped(),
		"html_rows", artifacts.Admitted(domain.StreamHTML),
		"events", artifacts.Admitted(domain.StreamJSONLD),
		"region_features", artifacts.Admitted(domain.StreamGeoRegion),
		"duration", elapsed,
	)
	return nil
}
