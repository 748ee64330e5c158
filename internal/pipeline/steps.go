package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cypherswwayinc/phishguardlite/internal/digest"
	"github.com/cypherswwayinc/phishguardlite/internal/mail"
	"github.com/cypherswwayinc/phishguardlite/internal/model"
	"github.com/cypherswwayinc/phishguardlite/internal/render"
	"github.com/cypherswwayinc/phishguardlite/internal/store"
)

// Step names, in the order DigestPipeline adds them.
const (
	StepLoad      = "load"
	StepAggregate = "aggregate"
	StepRender    = "render"
	StepPersist   = "persist"
	StepDeliver   = "deliver"
)

// LoadStep reads the report snapshot for the run's window.
type LoadStep struct {
	reports store.ReportStore
	logger  *slog.Logger
}

// NewLoadStep creates a LoadStep reading from reports.
func NewLoadStep(reports store.ReportStore, logger *slog.Logger) *LoadStep {
	return &LoadStep{reports: reports, logger: loggerOrDefault(logger)}
}

// Name implements Step.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do implements Step. A degraded read keeps the records that could be read;
// any other storage error leaves the run with an empty snapshot.
func (s *LoadStep) Do(ctx context.Context, run *model.DigestRun) error {
	records, err := s.reports.List(ctx, run.Start, run.End)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrDegraded):
		s.logger.Warn("some reports could not be read", "error", err, "loaded", len(records))
		run.AddWarning(err.Error())
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		s.logger.Error("failed to load reports; continuing with an empty snapshot", "error", err)
		run.AddWarning(fmt.Sprintf("load failed: %v", err))
		records = nil
	}

	if records == nil {
		records = make([]model.ReportRecord, 0)
	}
	run.Records = records

	s.logger.Info("loaded reports", "count", len(records))
	return nil
}

// AggregateStep computes the digest from the loaded snapshot.
type AggregateStep struct {
	aggregator *digest.Aggregator
}

// NewAggregateStep creates an AggregateStep. A nil aggregator uses the defaults.
func NewAggregateStep(aggregator *digest.Aggregator) *AggregateStep {
	if aggregator == nil {
		aggregator = digest.NewAggregator()
	}
	return &AggregateStep{aggregator: aggregator}
}

// Name implements Step.
func (s *AggregateStep) Name() string {
	return StepAggregate
}

// Do implements Step.
func (s *AggregateStep) Do(_ context.Context, run *model.DigestRun) error {
	run.Result = s.aggregator.Aggregate(run.Records, run.Start, run.End)
	return nil
}

// RenderStep presents the digest and names the artifact.
type RenderStep struct {
	renderer render.Renderer
}

// NewRenderStep creates a RenderStep using renderer.
func NewRenderStep(renderer render.Renderer) *RenderStep {
	return &RenderStep{renderer: renderer}
}

// Name implements Step.
func (s *RenderStep) Name() string {
	return StepRender
}

// Do implements Step. A render failure is fatal: later steps have nothing to store or send.
func (s *RenderStep) Do(_ context.Context, run *model.DigestRun) error {
	body, err := render.Bytes(s.renderer, run.Result)
	if err != nil {
		return err
	}
	run.Rendered = body
	run.ContentType = s.renderer.ContentType()
	run.ArtifactName = digest.ArtifactName(run.End, s.renderer.Extension())
	return nil
}

// PersistStep stores the rendered digest as an immutable artifact.
type PersistStep struct {
	artifacts store.ArtifactStore
	logger    *slog.Logger
}

// NewPersistStep creates a PersistStep writing to artifacts.
func NewPersistStep(artifacts store.ArtifactStore, logger *slog.Logger) *PersistStep {
	return &PersistStep{artifacts: artifacts, logger: loggerOrDefault(logger)}
}

// Name implements Step.
func (s *PersistStep) Name() string {
	return StepPersist
}

// Do implements Step. An existing artifact of the same name is kept as is.
func (s *PersistStep) Do(ctx context.Context, run *model.DigestRun) error {
	if run.Rendered == nil {
		return errors.New("nothing rendered to persist")
	}

	info, err := s.artifacts.PutArtifact(ctx, store.Artifact{
		Name:        run.ArtifactName,
		ContentType: run.ContentType,
		Body:        run.Rendered,
	})
	switch {
	case err == nil:
		run.Persisted = true
		run.Checksum = info.Checksum
		s.logger.Info("digest stored", "name", info.Name, "size", info.Size, "checksum", info.Checksum)
	case errors.Is(err, store.ErrArtifactExists):
		s.logger.Warn("digest already stored for this date; keeping the existing artifact", "name", run.ArtifactName)
		run.AddWarning(err.Error())
	default:
		s.logger.Error("failed to store digest", "name", run.ArtifactName, "error", err)
		run.AddWarning(fmt.Sprintf("persist failed: %v", err))
	}
	return nil
}

// DeliverStep mails the rendered digest.
type DeliverStep struct {
	sender mail.Sender
	cfg    mail.Config
	now    func() time.Time
	logger *slog.Logger
}

// NewDeliverStep creates a DeliverStep. A nil sender skips delivery.
func NewDeliverStep(sender mail.Sender, cfg mail.Config, logger *slog.Logger) *DeliverStep {
	return &DeliverStep{
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
		logger: loggerOrDefault(logger),
	}
}

// Name implements Step.
func (s *DeliverStep) Name() string {
	return StepDeliver
}

// Do implements Step. Send failures are recorded and do not fail the run.
func (s *DeliverStep) Do(ctx context.Context, run *model.DigestRun) error {
	if s.sender == nil {
		s.logger.Info("SMTP not configured; skipping email send. Set SMTP_* and DIGEST_TO to enable.")
		return nil
	}
	if run.Rendered == nil {
		return errors.New("nothing rendered to deliver")
	}

	msg := mail.NewDigestMessage(s.cfg, run.ContentType, run.Rendered, s.now())
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send digest", "smtp", s.cfg, "error", err)
		run.AddWarning(fmt.Sprintf("delivery failed: %v", err))
		return nil
	}

	run.Delivered = true
	s.logger.Info("digest sent", "recipients", len(msg.To))
	return nil
}

// DigestConfig wires the collaborators of DigestPipeline.
type DigestConfig struct {
	// Store provides the report snapshot and keeps the artifact.
	Store store.Store

	// Aggregator computes the digest. Nil uses digest.NewAggregator().
	Aggregator *digest.Aggregator

	// Renderer presents the digest.
	Renderer render.Renderer

	// Persist stores the rendered artifact when true.
	Persist bool

	// Sender delivers the digest. Nil skips delivery.
	Sender mail.Sender

	// Mail holds the sender address and recipients.
	Mail mail.Config

	// Logger is passed to every step.
	Logger *slog.Logger
}

// DigestPipeline creates the standard digest pipeline:
// load, aggregate, render, then optionally persist, then deliver.
func DigestPipeline(cfg DigestConfig, opts ...Option) *Pipeline {
	logger := loggerOrDefault(cfg.Logger)
	p := New(append([]Option{WithLogger(logger)}, opts...)...)

	p.AddSteps(
		NewLoadStep(cfg.Store, logger),
		NewAggregateStep(cfg.Aggregator),
		NewRenderStep(cfg.Renderer),
	)
	if cfg.Persist {
		p.AddStep(NewPersistStep(cfg.Store, logger))
	}
	p.AddStep(NewDeliverStep(cfg.Sender, cfg.Mail, logger))

	return p
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
