package model

import "time"

// Snapshot is a point-in-time copy of the pool and user views.
type Snapshot struct {
	TakenAt time.Time      `json:"taken_at"`
	Pools   []PoolSnapshot `json:"pools"`
	Users   []UserSnapshot `json:"users"`
}

// PoolSnapshot stores the TVL of a pool at TakenAt.
type PoolSnapshot struct {
	PoolAddress string  `json:"pool_address"`
	Name        string  `json:"name"`
	TVLUSD      float64 `json:"tvl_usd"`
	TotalSupply string  `json:"total_supply"`
	AssetCount  int     `json:"asset_count"`
}

// UserSnapshot stores the TVL of an owner at TakenAt.
type UserSnapshot struct {
	Owner  string `json:"owner"`
	TVLUSD string `json:"tvl_usd"`
}

// NewSnapshot builds a snapshot from the pool and user views.
func NewSnapshot(takenAt time.Time, pools []StablePool, users *UsersTvl) Snapshot {
	snap := Snapshot{
		TakenAt: takenAt.UTC(),
		Pools:   make([]PoolSnapshot, 0, len(pools)),
	}
	for _, pool := range pools {
		snap.Pools = append(snap.Pools, PoolSnapshot{
			PoolAddress: pool.Address,
			Name:        pool.Name,
			TVLUSD:      pool.TVLUSD,
			TotalSupply: pool.TotalSupply,
			AssetCount:  len(pool.Assets),
		})
	}
	if users != nil {
		snap.Users = make([]UserSnapshot, 0, len(users.Users))
		for _, user := range users.Users {
			snap.Users = append(snap.Users, UserSnapshot{Owner: user.Address, TVLUSD: user.TVLUSD})
		}
	}
	return snap
}
