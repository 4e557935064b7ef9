package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopsim/internal/config"
	"shopsim/internal/logger"
	"shopsim/internal/random"
	"shopsim/internal/store"
	"shopsim/internal/store/memstore"
	"shopsim/internal/store/postgres"
	"shopsim/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "shopsim",
	Short: "Populate an e-commerce schema with simulated members and purchases",
	Long: `shopsim grows a member population day by day over a date range and
simulates their logins, purchases, upgrades to paid membership, dormancy
and churn. Everything is written to PostgreSQL, one transaction per day.

Connection settings come from DATABASE_URL or DB_HOST, DB_PORT, DB_USER,
DB_PASSWORD, DB_NAME and DB_SSLMODE. The schema must already exist.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("dry-run", false, "simulate in memory without touching the database")
	rootCmd.PersistentFlags().Uint64("seed", 0, "random seed (default SHOPSIM_SEED, or time based)")
	rootCmd.PersistentFlags().Int("products", 0, "number of products to seed (default SHOPSIM_PRODUCTS, or 1000)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(catalogCmd)
}

// session bundles what every subcommand needs.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    store.Store
	seed     uint64
	products int
	shutdown telemetry.ShutdownFunc
}

func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Sync()
		return nil, err
	}

	s := &session{cfg: cfg, logger: log, shutdown: shutdown}

	switch {
	case cmd.Flags().Changed("seed"):
		s.seed, _ = cmd.Flags().GetUint64("seed")
	case cfg.Seed != nil:
		s.seed = *cfg.Seed
	default:
		s.seed = uint64(time.Now().UnixNano())
		log.Info("No seed given, using the clock", zap.Uint64("seed", s.seed))
	}

	s.products = cfg.Products
	if cmd.Flags().Changed("products") {
		s.products, _ = cmd.Flags().GetInt("products")
		if s.products <= 0 {
			s.close(ctx)
			return nil, fmt.Errorf("--products must be positive")
		}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		log.Info("Dry run, using in-memory store")
		s.store = memstore.New()
		return s, nil
	}

	s.store, err = postgres.Open(ctx, cfg.Database.DSN(), log)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *session) source() random.Source {
	return random.New(s.seed)
}

func (s *session) close(ctx context.Context) {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("Failed to close store", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Failed to flush traces", zap.Error(err))
	}
	s.logger.Sync()
}
