package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/capability"
	"github.com/bosun-marine/bosun-engine/pkg/database"
	"github.com/bosun-marine/bosun-engine/pkg/logging"
	"github.com/bosun-marine/bosun-engine/pkg/models"
	"github.com/bosun-marine/bosun-engine/pkg/retry"
)

// Options tune executor behavior per deployment.
type Options struct {
	// MinResultsPerTier is the row count at which later waves and tiers
	// are skipped.
	MinResultsPerTier int
	// PerTableTimeout bounds each table query. A timed-out table is
	// treated the same as a failed one: logged, excluded, carry on.
	PerTableTimeout time.Duration
	// PerTableLimit caps rows per table statement.
	PerTableLimit int
}

// DefaultOptions match the documented configuration defaults.
func DefaultOptions() Options {
	return Options{
		MinResultsPerTier: 5,
		PerTableTimeout:   2 * time.Second,
		PerTableLimit:     20,
	}
}

// ExecResult is the outcome of running a plan: merged normalized rows plus
// a degraded flag when one or more tables dropped out.
type ExecResult struct {
	Results  []models.NormalizedResult
	Degraded bool
}

// Executor runs query waves against the store.
type Executor interface {
	// Execute runs waves in order, fanning out per-table queries within
	// each wave and waiting for the whole wave before deciding whether
	// the next one is needed. Total failure of a wave (every table
	// errored) returns apperrors.ErrServiceUnavailable so callers can
	// tell degraded infrastructure from an empty result.
	Execute(ctx context.Context, waves []capability.QueryWave, yachtID uuid.UUID, limit int) (*ExecResult, error)
}

type executor struct {
	db     *database.DB
	opts   Options
	logger *zap.Logger
}

// NewExecutor creates an Executor over the given pool.
func NewExecutor(db *database.DB, opts Options, logger *zap.Logger) Executor {
	if opts.MinResultsPerTier <= 0 {
		opts.MinResultsPerTier = DefaultOptions().MinResultsPerTier
	}
	if opts.PerTableTimeout <= 0 {
		opts.PerTableTimeout = DefaultOptions().PerTableTimeout
	}
	if opts.PerTableLimit <= 0 {
		opts.PerTableLimit = DefaultOptions().PerTableLimit
	}
	return &executor{db: db, opts: opts, logger: logger.Named("executor")}
}

var _ Executor = (*executor)(nil)

func (e *executor) Execute(ctx context.Context, waves []capability.QueryWave, yachtID uuid.UUID, limit int) (*ExecResult, error) {
	out := &ExecResult{}
	seen := make(map[uuid.UUID]struct{})
	tierCount := 0
	lastTier := -1

	for _, wave := range waves {
		if err := ctx.Err(); err != nil {
			// Client went away; no partial response, no action gating.
			return nil, err
		}
		if wave.Tier != lastTier {
			// Entering a new tier: earlier tiers clearing the minimum
			// end the whole plan.
			if lastTier >= 0 && len(out.Results) >= e.opts.MinResultsPerTier {
				break
			}
			lastTier = wave.Tier
			tierCount = 0
		} else if tierCount >= e.opts.MinResultsPerTier {
			// The tier's exact wave already returned enough; skip its
			// fuzzy wave.
			continue
		}

		statements, err := BuildWaveStatements(wave, yachtID, e.opts.PerTableLimit)
		if err != nil {
			return nil, err
		}
		if len(statements) == 0 {
			continue
		}

		rows, failed := e.runWave(ctx, statements, yachtID)
		if failed == len(statements) {
			e.logger.Error("Every table in wave failed",
				zap.String("code", string(apperrors.CodeTotalQueryFailure)),
				zap.Int("tier", wave.Tier),
				zap.Int("wave", wave.Wave))
			return nil, apperrors.ErrServiceUnavailable
		}
		if failed > 0 {
			e.logger.Warn("Wave completed short-handed",
				zap.String("code", string(apperrors.CodePartialQueryFailure)),
				zap.Int("tier", wave.Tier),
				zap.Int("failed", failed),
				zap.Int("tables", len(statements)))
			out.Degraded = true
		}

		for _, r := range rows {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out.Results = append(out.Results, r)
			tierCount++
			if len(out.Results) >= limit {
				return out, nil
			}
		}
	}

	return out, nil
}

// runWave fans a wave's statements out concurrently and fans results back
// in, waiting for every query to finish or fail before returning. Each
// query gets its own yacht-scoped connection and timeout; failures are
// logged and counted, never propagated mid-wave.
func (e *executor) runWave(ctx context.Context, statements []Statement, yachtID uuid.UUID) ([]models.NormalizedResult, int) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []models.NormalizedResult
		failed  int
	)

	for _, stmt := range statements {
		wg.Add(1)
		go func(stmt Statement) {
			defer wg.Done()

			rows, err := e.runStatement(ctx, stmt, yachtID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				e.logger.Warn("Table query failed",
					zap.String("table", stmt.Table),
					zap.String("query", logging.SanitizeQuery(stmt.SQL)),
					zap.Error(err))
				return
			}
			results = append(results, rows...)
		}(stmt)
	}
	wg.Wait()

	// Merge order must not depend on goroutine scheduling.
	sortResults(results)
	return results, failed
}

func (e *executor) runStatement(ctx context.Context, stmt Statement, yachtID uuid.UUID) ([]models.NormalizedResult, error) {
	queryCtx, cancel := context.WithTimeout(ctx, e.opts.PerTableTimeout)
	defer cancel()

	var results []models.NormalizedResult
	err := retry.Do(queryCtx, retry.DefaultConfig(), func() error {
		scope, err := e.db.WithYacht(queryCtx, yachtID)
		if err != nil {
			return err
		}
		defer scope.Close()

		rows, err := scope.Conn.Query(queryCtx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results, err = normalizeRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
