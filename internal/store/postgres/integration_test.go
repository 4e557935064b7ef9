package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopsim/internal/membership"
	"shopsim/internal/random"
	"shopsim/internal/simulation"
	"shopsim/internal/store"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS category (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS food (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	category_id BIGINT NOT NULL REFERENCES category(id),
	price INT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS member (
	id BIGSERIAL PRIMARY KEY,
	last_name TEXT NOT NULL,
	first_name TEXT NOT NULL,
	birth_date DATE NOT NULL,
	gender SMALLINT NOT NULL,
	address TEXT NOT NULL,
	status SMALLINT NOT NULL,
	paid_at TIMESTAMP,
	quit_at TIMESTAMP,
	last_login_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS member_property (
	id BIGINT PRIMARY KEY REFERENCES member(id),
	to_paid_days INT,
	to_sleep_days INT,
	to_quit_days INT
);
CREATE TABLE IF NOT EXISTS member_status_log (
	id BIGSERIAL PRIMARY KEY,
	member_id BIGINT NOT NULL REFERENCES member(id),
	status_before SMALLINT NOT NULL,
	status_after SMALLINT NOT NULL,
	changed_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS purchase (
	id BIGSERIAL PRIMARY KEY,
	member_id BIGINT NOT NULL REFERENCES member(id),
	member_name TEXT NOT NULL,
	shipping_address TEXT NOT NULL,
	purchased_at TIMESTAMP NOT NULL,
	total_amount INT NOT NULL
);
CREATE TABLE IF NOT EXISTS purchase_detail (
	id BIGSERIAL PRIMARY KEY,
	purchase_id BIGINT NOT NULL REFERENCES purchase(id),
	food_id BIGINT NOT NULL REFERENCES food(id),
	food_name TEXT NOT NULL,
	unit_price INT NOT NULL,
	quantity INT NOT NULL,
	subtotal INT NOT NULL
);
`

// setupTestDB connects to the PostgreSQL instance described by the PG*
// environment variables and skips the test when it is not reachable.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	pgUser := getenv("PGUSER", "user")
	pgPassword := getenv("PGPASSWORD", "password")
	pgHost := getenv("PGHOST", "localhost")
	pgPort := getenv("PGPORT", "5432")
	pgDB := getenv("PGDATABASE", "testdb")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Open(ctx, connStr, zap.NewNop())
	if err != nil {
		t.Skipf("skipping integration tests: could not connect to postgres: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := s.db.Exec(testSchema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	require.NoError(t, s.Reset(context.Background()))

	return s
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestIntegration_Run(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	driver, err := simulation.NewDriver(s, random.New(11), zap.NewNop())
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	summary, err := driver.Run(ctx, simulation.Options{
		Start:        start,
		End:          start.AddDate(0, 0, 2),
		ProductCount: 100,
		Reset:        true,
	})
	require.NoError(t, err)
	totals := summary.Totals()

	var members, params, purchases, revenue int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM member`).Scan(&members))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM member_property`).Scan(&params))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM purchase`).Scan(&purchases, &revenue))

	assert.Equal(t, totals.Population, members)
	assert.Equal(t, members, params)
	assert.Equal(t, totals.Purchases(), purchases)
	assert.Equal(t, totals.Revenue, int64(revenue))

	var mismatched int
	require.NoError(t, s.db.QueryRow(`
		SELECT COUNT(*) FROM purchase p
		WHERE p.total_amount <> (SELECT SUM(subtotal) FROM purchase_detail d WHERE d.purchase_id = p.id)
	`).Scan(&mismatched))
	assert.Zero(t, mismatched)

	require.NoError(t, s.InDay(ctx, start, func(ctx context.Context, tx store.Tx) error {
		products, err := tx.Products(ctx)
		if err != nil {
			return err
		}
		assert.Len(t, products, 100)
		return nil
	}))
}

func TestIntegration_LifecycleAndRollback(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	day0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	toPaid, toQuit := 30, 60

	var id int64
	require.NoError(t, s.InDay(ctx, day0, func(ctx context.Context, tx store.Tx) error {
		m := &membership.Member{LastName: "Curie", FirstName: "Marie", BirthDate: day0.AddDate(-30, 0, 0), Address: "Paris", CreatedAt: day0, UpdatedAt: day0}
		if err := tx.InsertMembers(ctx, []*membership.Member{m}); err != nil {
			return err
		}
		id = m.ID
		return tx.InsertLifecycleParams(ctx, []membership.LifecycleParams{{MemberID: m.ID, DaysToPaid: &toPaid, DaysToQuit: &toQuit}})
	}))

	ev := membership.NewEvaluator(zap.NewNop())
	for _, offset := range []int{30, 30, 60} {
		day := day0.AddDate(0, 0, offset)
		require.NoError(t, s.InDay(ctx, day, func(ctx context.Context, tx store.Tx) error {
			_, err := ev.Evaluate(ctx, tx, day)
			return err
		}))
	}

	history, err := s.StatusHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, membership.StatusPaid, history[0].After)
	assert.Equal(t, membership.StatusQuit, history[1].After)
	assert.Equal(t, membership.StatusPaid, history[1].Before)

	err = s.InDay(ctx, day0, func(ctx context.Context, tx store.Tx) error {
		return tx.InsertLifecycleParams(ctx, []membership.LifecycleParams{{MemberID: id}})
	})
	assert.ErrorIs(t, err, store.ErrConstraint)

	var members int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM member`).Scan(&members))
	assert.Equal(t, 1, members)
}
