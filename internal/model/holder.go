package model

// LPHolder is a jetton wallet of a pool LP token as reported by the indexer.
type LPHolder struct {
	Address           string `json:"address"`
	Balance           string `json:"balance"`
	Owner             string `json:"owner"`
	Jetton            string `json:"jetton"`
	LastTransactionLT string `json:"last_transaction_lt"`
}

// UserTvl is the USD value an owner holds across all pools.
type UserTvl struct {
	Address string `json:"address"`
	TVLUSD  string `json:"tvlUsd"`
}

// UsersTvl is the response of the per-user TVL view.
type UsersTvl struct {
	TotalTVL float64   `json:"totalTvl"`
	Users    []UserTvl `json:"users"`
}
