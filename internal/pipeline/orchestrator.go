package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"disease-sync/pkg/errors"
	"disease-sync/pkg/metrics"
)

// pinger re-verifies pool connectivity before dispatch.
type pinger interface {
	HealthCheck(ctx context.Context) error
}

// Orchestrator sequences one run: connectivity, schema, then the dispatch
// for the requested mode. Execution is strictly sequential; every statement
// gets exactly one attempt.
type Orchestrator struct {
	source  pinger
	dest    pinger
	schema  SchemaManager
	engine  TransformationEngine
	health  HealthChecker
	verify  Verifier
	monitor *metrics.Monitor
	log     *zap.Logger
}

// Deps collects the orchestrator collaborators so tests can substitute any
// of them.
type Deps struct {
	Source  pinger
	Dest    pinger
	Schema  SchemaManager
	Engine  TransformationEngine
	Health  HealthChecker
	Verify  Verifier
	Monitor *metrics.Monitor
	Logger  *zap.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(d Deps) *Orchestrator {
	return &Orchestrator{
		source:  d.Source,
		dest:    d.Dest,
		schema:  d.Schema,
		engine:  d.Engine,
		health:  d.Health,
		verify:  d.Verify,
		monitor: d.Monitor,
		log:     d.Logger,
	}
}

// Run executes one request and returns its outcome. Read-only modes never
// write to the destination beyond the idempotent table bootstrap.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Outcome, error) {
	out := Outcome{Mode: req.Mode}

	if err := req.Validate(); err != nil {
		return out, err
	}

	start := time.Now()
	o.log.Info("run starting", zap.String("mode", req.Mode.String()))

	if err := o.source.HealthCheck(ctx); err != nil {
		return out, errors.Wrap(err, errors.ErrorTypeConnection, "source connection check failed")
	}
	if err := o.dest.HealthCheck(ctx); err != nil {
		return out, errors.Wrap(err, errors.ErrorTypeConnection, "destination connection check failed")
	}
	o.monitor.Checkpoint("connections verified")

	if err := o.schema.EnsureTrainingTable(ctx); err != nil {
		return out, err
	}
	o.monitor.Checkpoint("training table ready")

	switch req.Mode {
	case ModeFull:
		// Clearing first is the contract: a full sync rebuilds from scratch
		// even when the source turns out to be empty.
		if err := o.schema.Truncate(ctx); err != nil {
			return out, err
		}
		o.monitor.Checkpoint("table cleared")

		stats, err := o.engine.RunFull(ctx)
		if err != nil {
			return out, err
		}
		out.Stats = stats
		o.monitor.Checkpoint("full sync completed")

	case ModeIncremental:
		stats, err := o.engine.RunIncremental(ctx, req.WindowHours)
		if err != nil {
			return out, err
		}
		out.Stats = stats
		o.monitor.Checkpoint("incremental sync completed")

	case ModeHealthCheck:
		rep, err := o.health.Run(ctx)
		out.Health = &rep
		if err != nil {
			return out, err
		}
		o.monitor.Checkpoint("health check completed")

	case ModePreview:
		records, err := o.engine.Preview(ctx)
		if err != nil {
			return out, err
		}
		out.Preview = records
		o.monitor.Checkpoint("preview completed")

	case ModeVerify:
		rep, err := o.verify.Run(ctx)
		out.Verify = &rep
		if err != nil {
			return out, err
		}
		o.monitor.Checkpoint("verification completed")

	default:
		return out, errors.New(errors.ErrorTypeValidation, "unknown run mode").
			WithDetail("mode", int(req.Mode))
	}

	if req.Mode.Mutates() {
		metrics.RowsSynced.WithLabelValues(req.Mode.String()).Add(float64(out.Stats.Processed))
	}

	o.monitor.Report(o.log)
	o.log.Info("run finished",
		zap.String("mode", req.Mode.String()),
		zap.Int64("processed", out.Stats.Processed),
		zap.Int64("inserted", out.Stats.Inserted),
		zap.Int64("errors", out.Stats.Errors),
		zap.Duration("duration", time.Since(start)))

	return out, nil
}
