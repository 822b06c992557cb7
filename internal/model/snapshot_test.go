package model

import (
	"testing"
	"time"
)

func TestNewSnapshot(t *testing.T) {
	takenAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	pools := []StablePool{
		{Name: "3TON", Address: "pool-a", TVLUSD: 10, TotalSupply: "100", Assets: make([]PoolToken, 3)},
		{Name: "DONE/USDT", Address: "pool-b", TVLUSD: 2.5, TotalSupply: "7", Assets: make([]PoolToken, 2)},
	}
	users := &UsersTvl{
		TotalTVL: 12.5,
		Users:    []UserTvl{{Address: "owner-1", TVLUSD: "1.25"}},
	}

	snap := NewSnapshot(takenAt, pools, users)

	if !snap.TakenAt.Equal(takenAt) || snap.TakenAt.Location() != time.UTC {
		t.Fatalf("taken_at should be normalized to UTC: %v", snap.TakenAt)
	}
	if len(snap.Pools) != 2 || snap.Pools[1].PoolAddress != "pool-b" || snap.Pools[0].AssetCount != 3 {
		t.Fatalf("pools mismatch: %+v", snap.Pools)
	}
	if len(snap.Users) != 1 || snap.Users[0].Owner != "owner-1" || snap.Users[0].TVLUSD != "1.25" {
		t.Fatalf("users mismatch: %+v", snap.Users)
	}
}
