// internal/simulation/driver.go
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"shopsim/internal/catalog"
	"shopsim/internal/membership"
	"shopsim/internal/purchasing"
	"shopsim/internal/random"
	"shopsim/internal/store"
)

var ErrInvalidDateRange = errors.New("start date is after end date")

// DefaultProductCount is the catalog size of a fresh run.
const DefaultProductCount = 1000

// Options controls one run.
type Options struct {
	Start        time.Time
	End          time.Time
	Seed         uint64
	ProductCount int
	// MembersOnly registers members and their lifecycle parameters but
	// skips status transitions and activity.
	MembersOnly bool
	// Reset truncates the store and seeds a fresh catalog before the first day.
	Reset bool
	// Pace limits the run to this many simulated days per second. Zero
	// means unlimited.
	Pace float64
}

// Driver owns the date loop. Each simulated day is one store unit of work.
type Driver struct {
	store     store.Store
	src       random.Source
	seeder    catalog.Seeder
	factory   *membership.Factory
	evaluator *membership.Evaluator
	simulator *purchasing.Simulator
	metrics   *runMetrics
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewDriver wires the simulation components around a single random source.
// Name generators are seeded from src so that one seed reproduces the run.
func NewDriver(st store.Store, src random.Source, logger *zap.Logger) (*Driver, error) {
	metrics, err := newRunMetrics()
	if err != nil {
		return nil, err
	}

	return &Driver{
		store:     st,
		src:       src,
		seeder:    catalog.NewSeeder(src, catalog.NewFakeNamer(src.Uint64())),
		factory:   membership.NewFactory(src, membership.NewFakeProfiles(src.Uint64())),
		evaluator: membership.NewEvaluator(logger),
		simulator: purchasing.NewSimulator(src, logger),
		metrics:   metrics,
		tracer:    otel.Tracer("shopsim/simulation"),
		logger:    logger,
	}, nil
}

// Run simulates every date from opts.Start through opts.End inclusive.
// Days that completed before an error stay committed and are reported in
// the returned summary.
func (d *Driver) Run(ctx context.Context, opts Options) (*Summary, error) {
	start, end := membership.Date(opts.Start), membership.Date(opts.End)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if opts.ProductCount <= 0 {
		opts.ProductCount = DefaultProductCount
	}

	growth := membership.NewGrowthScheduler(d.src)
	summary := &Summary{
		RunID:            uuid.New(),
		Seed:             opts.Seed,
		Start:            start,
		End:              end,
		AnnualMultiplier: growth.AnnualMultiplier(),
		DailyRate:        growth.DailyRate(),
		MembersOnly:      opts.MembersOnly,
	}
	logger := d.logger.With(zap.String("run_id", summary.RunID.String()))

	ctx, span := d.tracer.Start(ctx, "simulation.run",
		trace.WithAttributes(
			attribute.String("run.id", summary.RunID.String()),
			attribute.String("run.start", start.Format(time.DateOnly)),
			attribute.String("run.end", end.Format(time.DateOnly)),
			attribute.Bool("run.members_only", opts.MembersOnly),
		),
	)
	defer span.End()

	logger.Info("Starting simulation",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Uint64("seed", opts.Seed),
		zap.Float64("annual_growth_pct", (growth.AnnualMultiplier()-1)*100),
		zap.Float64("daily_growth_pct", growth.DailyRate()*100),
	)

	products, err := d.prepareCatalog(ctx, opts, start)
	if err != nil {
		return summary, d.fail(span, err)
	}
	summary.Products = len(products)

	var limiter *rate.Limiter
	if opts.Pace > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Pace), 1)
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return summary, d.fail(span, fmt.Errorf("failed to wait for pace limiter: %w", err))
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, d.fail(span, err)
		}

		stats, err := d.runDay(ctx, growth, day, products, opts.MembersOnly)
		if err != nil {
			return summary, d.fail(span, fmt.Errorf("day %s: %w", day.Format(time.DateOnly), err))
		}

		summary.Days = append(summary.Days, stats)
		d.metrics.record(ctx, stats)
		logger.Info("Simulated day",
			zap.String("date", day.Format(time.DateOnly)),
			zap.Int("new_members", stats.NewMembers),
			zap.Int("population", stats.Population),
			zap.Int("promoted", stats.Promoted),
			zap.Int("quit", stats.Quit),
			zap.Int("logins", stats.Logins()),
			zap.Int("purchases", stats.Purchases()),
			zap.Int64("revenue", stats.Revenue),
		)
	}

	totals := summary.Totals()
	span.SetAttributes(
		attribute.Int("run.days", len(summary.Days)),
		attribute.Int("run.members", totals.NewMembers),
	)
	logger.Info("Simulation finished",
		zap.Int("days", len(summary.Days)),
		zap.Int("new_members", totals.NewMembers),
		zap.Int("population", totals.Population),
		zap.Int("purchases", totals.Purchases()),
		zap.Int64("revenue", totals.Revenue),
	)

	return summary, nil
}

// prepareCatalog optionally resets the store, then reads back the existing
// catalog or seeds a fresh one. Reading and seeding share one unit of work,
// so a failed seed leaves no partial catalog behind.
func (d *Driver) prepareCatalog(ctx context.Context, opts Options, start time.Time) ([]catalog.Product, error) {
	if opts.Reset {
		if err := d.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset store: %w", err)
		}
	}

	var (
		products []catalog.Product
		seeded   bool
	)
	err := d.store.InDay(ctx, start, func(ctx context.Context, tx store.Tx) error {
		existing, err := tx.Products(ctx)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		if len(existing) > 0 {
			products = existing
			return nil
		}
		products, err = d.seedCatalog(ctx, tx, start, opts.ProductCount)
		seeded = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}

	if seeded {
		d.logSeeded(len(products))
	}
	return products, nil
}

// SeedCatalog inserts the fixed categories and count products stamped with
// day as one unit of work.
func (d *Driver) SeedCatalog(ctx context.Context, day time.Time, count int) ([]catalog.Product, error) {
	day = membership.Date(day)

	var products []catalog.Product
	err := d.store.InDay(ctx, day, func(ctx context.Context, tx store.Tx) error {
		var err error
		products, err = d.seedCatalog(ctx, tx, day, count)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.logSeeded(len(products))
	return products, nil
}

func (d *Driver) seedCatalog(ctx context.Context, repo catalog.Repository, day time.Time, count int) ([]catalog.Product, error) {
	ctx, span := d.tracer.Start(ctx, "simulation.seed_catalog",
		trace.WithAttributes(attribute.Int("product.count", count)),
	)
	defer span.End()

	products, err := d.seeder.Seed(ctx, repo, day, count)
	if err != nil {
		return nil, d.fail(span, fmt.Errorf("failed to seed catalog: %w", err))
	}
	return products, nil
}

func (d *Driver) logSeeded(products int) {
	d.logger.Info("Seeded catalog",
		zap.Int("categories", len(catalog.Kinds)),
		zap.Int("products", products),
	)
}

func (d *Driver) runDay(ctx context.Context, growth *membership.GrowthScheduler, day time.Time, products []catalog.Product, membersOnly bool) (DayStats, error) {
	ctx, span := d.tracer.Start(ctx, "simulation.day",
		trace.WithAttributes(
			attribute.String("day", day.Format(time.DateOnly)),
		),
	)
	defer span.End()

	stats := DayStats{Date: day}
	err := d.store.InDay(ctx, day, func(ctx context.Context, tx store.Tx) error {
		stats = DayStats{Date: day}

		population, err := tx.CountMembers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		elapsed, err := d.elapsedDays(ctx, tx, day)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("day.elapsed", elapsed))

		n := growth.NewMembers(d.src, elapsed, population)
		if _, err := d.factory.Register(ctx, tx, day, n); err != nil {
			return err
		}
		stats.NewMembers = n
		stats.Population = population + n

		if membersOnly {
			return nil
		}

		transitions, err := d.evaluator.Evaluate(ctx, tx, day)
		if err != nil {
			return err
		}
		stats.Promoted = len(transitions.Promoted)
		stats.Quit = len(transitions.Quit)

		activity, err := d.simulator.Simulate(ctx, tx, day, products)
		if err != nil {
			return err
		}
		stats.ActiveFree = activity.Free.Active
		stats.ActivePaid = activity.Paid.Active
		stats.FreeLogins = activity.Free.Logins
		stats.PaidLogins = activity.Paid.Logins
		stats.FreePurchases = activity.Free.Purchases
		stats.PaidPurchases = activity.Paid.Purchases
		stats.Revenue = activity.Revenue()
		return nil
	})
	if err != nil {
		return DayStats{}, d.fail(span, err)
	}

	span.SetAttributes(
		attribute.Int("members.new", stats.NewMembers),
		attribute.Int("members.population", stats.Population),
		attribute.Int("purchases", stats.Purchases()),
	)
	return stats, nil
}

// elapsedDays counts the days from the first stored member to day, so that a
// run continuing on an existing population does not bootstrap it again.
func (d *Driver) elapsedDays(ctx context.Context, tx store.Tx, day time.Time) (int, error) {
	first, ok, err := tx.FirstJoinDate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read first join date: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return max(0, membership.DaysBetween(first, day)), nil
}

func (d *Driver) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
