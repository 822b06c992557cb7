package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stableTvl/internal/model"
)

func sampleSnapshot(at time.Time) model.Snapshot {
	return model.Snapshot{
		TakenAt: at,
		Pools:   []model.PoolSnapshot{{PoolAddress: "EQpool", Name: "3TON", TVLUSD: 11, TotalSupply: "1000", AssetCount: 2}},
		Users:   []model.UserSnapshot{{Owner: "alice", TVLUSD: "2.75"}},
	}
}

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshots.jsonl")
	store := NewJsonlStorage(path)
	ctx := context.Background()

	first := sampleSnapshot(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	second := sampleSnapshot(time.Date(2024, 5, 1, 0, 5, 0, 0, time.UTC))
	require.NoError(t, store.PutSnapshot(ctx, first))
	require.NoError(t, store.PutSnapshot(ctx, second))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var got []model.Snapshot
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var snap model.Snapshot
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &snap))
		got = append(got, snap)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, got, 2)
	assert.True(t, first.TakenAt.Equal(got[0].TakenAt))
	assert.True(t, second.TakenAt.Equal(got[1].TakenAt))
	assert.Equal(t, first.Pools, got[0].Pools)
	assert.Equal(t, first.Users, got[0].Users)
}

type failingSink struct{ err error }

func (f failingSink) PutSnapshot(context.Context, model.Snapshot) error { return f.err }

type countingSink struct{ n int }

func (c *countingSink) PutSnapshot(context.Context, model.Snapshot) error {
	c.n++
	return nil
}

func TestMultiStopsAtFirstError(t *testing.T) {
	boom := errors.New("disk full")
	before, after := &countingSink{}, &countingSink{}

	err := Multi{before, failingSink{err: boom}, after}.PutSnapshot(context.Background(), model.Snapshot{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, before.n)
	assert.Equal(t, 0, after.n)
}
