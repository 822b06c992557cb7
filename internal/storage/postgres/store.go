package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stableTvl/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS pool_tvl_snapshots (
	taken_at     timestamptz      NOT NULL,
	pool_address text             NOT NULL,
	name         text             NOT NULL,
	tvl_usd      double precision NOT NULL,
	total_supply numeric          NOT NULL,
	asset_count  integer          NOT NULL,
	PRIMARY KEY (taken_at, pool_address)
);
CREATE TABLE IF NOT EXISTS user_tvl_snapshots (
	taken_at timestamptz NOT NULL,
	owner    text        NOT NULL,
	tvl_usd  numeric     NOT NULL,
	PRIMARY KEY (taken_at, owner)
);
`

// Store provides Postgres persistence for TVL snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PutSnapshot writes the pool and user rows of snap in one transaction.
// Rows already stored for the same taken_at are left untouched.
func (s *Store) PutSnapshot(ctx context.Context, snap model.Snapshot) error {
	batch := snapshotBatch(snap)
	if batch.Len() == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("snapshot row %d: %w", i, err)
			}
		}
		return br.Close()
	})
}

func snapshotBatch(snap model.Snapshot) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, p := range snap.Pools {
		batch.Queue(`
			INSERT INTO pool_tvl_snapshots (taken_at, pool_address, name, tvl_usd, total_supply, asset_count)
			VALUES ($1, $2, $3, $4, $5::text::numeric, $6)
			ON CONFLICT (taken_at, pool_address) DO NOTHING
		`,
			snap.TakenAt,
			p.PoolAddress,
			p.Name,
			p.TVLUSD,
			p.TotalSupply,
			p.AssetCount,
		)
	}
	for _, u := range snap.Users {
		batch.Queue(`
			INSERT INTO user_tvl_snapshots (taken_at, owner, tvl_usd)
			VALUES ($1, $2, $3::text::numeric)
			ON CONFLICT (taken_at, owner) DO NOTHING
		`,
			snap.TakenAt,
			u.Owner,
			u.TVLUSD,
		)
	}
	return batch
}
