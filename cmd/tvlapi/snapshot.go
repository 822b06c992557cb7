package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stableTvl/internal/config"
	"stableTvl/internal/model"
	"stableTvl/internal/storage"
	"stableTvl/internal/storage/postgres"
)

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSnapshot(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks storage.Multi
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	engine, err := newEngine(cfg.Config, nil, logger)
	if err != nil {
		return err
	}

	takenAt := time.Now()
	pools, err := engine.AvailablePools(ctx)
	if err != nil {
		return fmt.Errorf("pools: %w", err)
	}
	users, err := engine.TvlByUsers(ctx)
	if err != nil {
		return fmt.Errorf("users: %w", err)
	}

	snap := model.NewSnapshot(takenAt, pools, &users)
	if err := sinks.PutSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	logger.Info("snapshot complete",
		zap.Time("taken_at", snap.TakenAt),
		zap.Int("pools", len(snap.Pools)),
		zap.Int("users", len(snap.Users)),
		zap.Float64("total_tvl", users.TotalTVL),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)
	return nil
}
