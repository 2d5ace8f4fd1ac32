package reconcile

import (
	"context"
	"errors"
	"fmt"

	"pos2cmine/core/cmine"
	"pos2cmine/core/mapping"
	"pos2cmine/core/pos"

	"go.uber.org/zap"
)

// Engine mirrors PoS records into CMINE ventures.
// An Engine is single use and not safe for concurrent use.
type Engine struct {
	spec   *Spec
	opts   Options
	logger *zap.Logger

	phase        Phase
	target       Target
	ownerID      int64
	trlAttribute string
	index        *cmine.Index
	mapper       *mapping.Mapper
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(spec *Spec, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{spec: spec, opts: opts, logger: logger}
}

// Phase returns the current lifecycle state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Index returns the identity index, or nil before setup.
func (e *Engine) Index() *cmine.Index {
	return e.index
}

// Setup authenticates, resolves the owner and the TRL attribute, and builds
// the identity index. It runs once; later calls are no-ops.
func (e *Engine) Setup(ctx context.Context) error {
	return e.setup(ctx, true)
}

func (e *Engine) setup(ctx context.Context, resolveTRL bool) error {
	if e.phase >= PhaseIndexed {
		return nil
	}
	if e.spec.Login == nil {
		return errors.New("reconcile: no login configured")
	}

	target, err := e.spec.Login(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	e.target = target

	e.ownerID, err = target.UserIDByEmail(ctx, e.spec.OwnerEmail)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}
	e.phase = PhaseAuthenticated
	e.logger.Info("Authenticated", zap.String("owner", e.spec.OwnerEmail), zap.Int64("owner_id", e.ownerID))

	if resolveTRL {
		if e.trlAttribute, err = e.resolveTRLAttribute(ctx); err != nil {
			return err
		}
	}
	e.mapper = mapping.NewMapper(e.spec.Mapping, e.ownerID, e.trlAttribute)

	owner := e.ownerID
	e.index, err = target.VentureIndex(ctx, &owner)
	if err != nil {
		return fmt.Errorf("build venture index: %w", err)
	}
	e.phase = PhaseIndexed
	e.logger.Info("Available on CMINE",
		zap.Int("ventures", e.index.Len()),
		zap.Int("duplicates_deleted", e.index.Duplicates),
	)
	e.logger.Debug("Indexed titles", zap.Strings("titles", e.index.Titles()))

	return nil
}

// resolveTRLAttribute returns the single attribute matching the TRL pattern,
// or "" when zero or several match.
func (e *Engine) resolveTRLAttribute(ctx context.Context) (string, error) {
	names, err := e.target.CustomAttributeNames(ctx, e.spec.TRLPattern)
	if err != nil {
		return "", fmt.Errorf("resolve TRL attribute: %w", err)
	}
	if len(names) != 1 {
		e.logger.Warn("Could not identify TRL custom attribute",
			zap.String("pattern", e.spec.TRLPattern),
			zap.Strings("candidates", names),
		)
		return "", nil
	}
	e.logger.Info("TRL custom attribute", zap.String("name", names[0]))
	return names[0], nil
}

// Sync creates or updates one venture per source record and reports the
// ventures no record matched. The summary is returned even on error and
// reflects the work done up to the failure.
func (e *Engine) Sync(ctx context.Context) (*Summary, error) {
	summary := &Summary{Mode: "sync", DryRun: e.opts.DryRun}

	if err := e.Setup(ctx); err != nil {
		return summary, err
	}
	summary.Indexed = e.index.Len()
	summary.Duplicates = e.index.Duplicates

	e.phase = PhaseProcessing
	for rec, err := range e.spec.Source.Records(ctx) {
		if err != nil {
			return summary, fmt.Errorf("read PoS: %w", err)
		}
		if err := e.process(ctx, rec, summary); err != nil {
			return summary, err
		}
		if e.opts.One {
			break
		}
	}
	e.phase = PhaseDone

	// A single-record run has not seen the other records, so nothing is an orphan.
	if e.opts.One {
		return summary, nil
	}

	summary.Orphans = e.index.Orphans()
	for _, title := range summary.Orphans {
		entry, _ := e.index.Lookup(title)
		logger := e.logger.With(zap.String("title", title), zap.Int64("id", entry.ID))
		if !e.opts.DeleteOrphans {
			logger.Info("Orphaned venture (not deleted)")
			continue
		}
		if err := e.delete(ctx, logger, entry.ID); err != nil {
			return summary, err
		}
		summary.Deleted++
	}

	return summary, nil
}

func (e *Engine) process(ctx context.Context, rec pos.Record, summary *Summary) error {
	action, err := Decide(e.index, rec)
	if err != nil {
		return err
	}
	summary.Processed++

	logger := e.logger.With(zap.String("title", rec.Title), zap.String("action", string(action.Type)))
	switch action.Type {
	case ActionCreate:
		logger.Info("Processing", zap.String("reason", action.Reason))
		if !e.opts.DryRun {
			if _, err := e.target.CreateVenture(ctx, e.mapper.Map(rec)); err != nil {
				return err
			}
		}
		summary.Created++
	case ActionUpdate:
		logger.Info("Processing", zap.Int64("id", action.VentureID), zap.String("reason", action.Reason))
		if !e.opts.DryRun {
			if _, err := e.target.UpdateVenture(ctx, action.VentureID, e.mapper.Map(rec)); err != nil {
				return err
			}
		}
		summary.Updated++
	default:
		logger.Debug("Up to date", zap.Int64("id", action.VentureID))
		summary.Skipped++
	}

	e.index.MarkSeen(rec.Title)
	return nil
}

// Purge deletes every venture owned by the configured owner, in title order.
func (e *Engine) Purge(ctx context.Context) (*Summary, error) {
	summary := &Summary{Mode: "purge", DryRun: e.opts.DryRun}

	if err := e.setup(ctx, false); err != nil {
		return summary, err
	}
	summary.Indexed = e.index.Len()
	summary.Duplicates = e.index.Duplicates

	e.phase = PhaseProcessing
	for _, title := range e.index.Titles() {
		entry, _ := e.index.Lookup(title)
		if err := e.delete(ctx, e.logger.With(zap.String("title", title), zap.Int64("id", entry.ID)), entry.ID); err != nil {
			return summary, err
		}
		summary.Deleted++
		if e.opts.One {
			break
		}
	}
	e.phase = PhaseDone

	return summary, nil
}

func (e *Engine) delete(ctx context.Context, logger *zap.Logger, id int64) error {
	logger.Warn("CMINE: delete", zap.Bool("dry_run", e.opts.DryRun))
	if e.opts.DryRun {
		return nil
	}
	return e.target.DeleteVenture(ctx, id)
}
