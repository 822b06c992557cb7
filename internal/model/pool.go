package model

import (
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// PoolConfig is a pool served by the API.
type PoolConfig struct {
	Name    string `json:"name" mapstructure:"name"`
	Address string `json:"address" mapstructure:"address"`
}

// PoolData is the raw get_pool_data result of a pool contract.
type PoolData struct {
	Factory      *address.Address
	ContractType int64
	Assets       *cell.Cell
	Rates        *cell.Cell
	A            *big.Int
	Fee          *big.Int
	AdminFee     *big.Int
	TotalSupply  *big.Int
	RatesManager *address.Address
}

// PoolToken is a pool asset enriched with price and metadata.
// Reserve is the raw on-chain integer; apply Metadata.Decimals to display it.
type PoolToken struct {
	Type     TokenType      `json:"type"`
	Address  string         `json:"address"`
	USDPrice float64        `json:"usdPrice"`
	Reserve  string         `json:"reserve"`
	Metadata JettonMetadata `json:"metadata"`
}

// StablePool is the public view of a pool.
type StablePool struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Factory     string         `json:"factory"`
	A           string         `json:"A"`
	Fee         string         `json:"fee"`
	DevFee      string         `json:"devFee"`
	TotalSupply string         `json:"totalSupply"`
	TVLUSD      float64        `json:"tvlUsd"`
	LPMetadata  JettonMetadata `json:"lpMetadata"`
	Assets      []PoolToken    `json:"assets"`
}
