// internal/store/postgres/postgres.go
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shopsim/internal/store"
)

// batchSize bounds the rows of one multi-row statement so that the bind
// parameter count stays well under the protocol limit.
const batchSize = 1000

// Store is the PostgreSQL implementation of store.Store. The schema is
// provisioned externally.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping: %w", store.ErrUnavailable, err)
	}

	return New(db, logger), nil
}

// New wraps an open database handle.
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("shopsim/store/postgres"),
		logger: logger,
	}
}

// Reset truncates members and categories. Every other table references one
// of the two and is emptied by the cascade.
func (s *Store) Reset(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "store.reset")
	defer span.End()

	if _, err := s.db.ExecContext(ctx, `TRUNCATE member, category CASCADE`); err != nil {
		return fail(span, fmt.Errorf("truncate: %w", classify(err)))
	}

	s.logger.Info("Truncated simulation tables")
	return nil
}

// InDay runs fn inside one read-committed transaction.
func (s *Store) InDay(ctx context.Context, day time.Time, fn func(ctx context.Context, tx store.Tx) error) error {
	ctx, span := s.tracer.Start(ctx, "store.day",
		trace.WithAttributes(
			attribute.String("day", day.Format(time.DateOnly)),
		),
	)
	defer span.End()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(span, fmt.Errorf("begin transaction: %w", classify(err)))
	}
	defer sqlTx.Rollback()

	if err := fn(ctx, &tx{tx: sqlTx, tracer: s.tracer}); err != nil {
		span.SetAttributes(attribute.Bool("rolled_back", true))
		return fail(span, err)
	}

	if err := sqlTx.Commit(); err != nil {
		return fail(span, fmt.Errorf("commit transaction: %w", classify(err)))
	}

	span.SetAttributes(attribute.Bool("committed", true))
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// tx implements store.Tx on top of one database transaction.
type tx struct {
	tx     *sql.Tx
	tracer trace.Tracer
}

// classify maps driver errors onto the store error taxonomy. The original
// error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "57":
			return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
		case "22", "23":
			return fmt.Errorf("%w: %w", store.ErrConstraint, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}

	return err
}

// placeholders renders "($1, $2), ($3, $4)" style value lists.
func placeholders(rows, cols int, casts ...string) string {
	buf := make([]byte, 0, rows*cols*6)
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, '(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				buf = append(buf, ", "...)
			}
			buf = fmt.Appendf(buf, "$%d", n)
			if r == 0 && c < len(casts) && casts[c] != "" {
				buf = append(buf, "::"...)
				buf = append(buf, casts[c]...)
			}
			n++
		}
		buf = append(buf, ')')
	}
	return string(buf)
}

// chunks calls fn with consecutive [lo, hi) windows of at most batchSize.
func chunks(n int, fn func(lo, hi int) error) error {
	for lo := 0; lo < n; lo += batchSize {
		if err := fn(lo, min(lo+batchSize, n)); err != nil {
			return err
		}
	}
	return nil
}
