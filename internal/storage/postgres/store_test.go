package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stableTvl/internal/model"
)

func TestSnapshotBatch(t *testing.T) {
	snap := model.Snapshot{
		TakenAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Pools: []model.PoolSnapshot{
			{PoolAddress: "EQa", Name: "3TON", TVLUSD: 11, TotalSupply: "1000", AssetCount: 2},
			{PoolAddress: "EQb", Name: "DONE/USDT", TVLUSD: 5, TotalSupply: "0", AssetCount: 2},
		},
		Users: []model.UserSnapshot{{Owner: "alice", TVLUSD: "2.75"}},
	}

	batch := snapshotBatch(snap)
	assert.Equal(t, 3, batch.Len())
	assert.Equal(t, 0, snapshotBatch(model.Snapshot{}).Len())
}

func TestNewStoreRequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	assert.Error(t, err)
}
