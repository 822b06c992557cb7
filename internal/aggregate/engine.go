package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stableTvl/internal/memo"
	"stableTvl/internal/model"
	"stableTvl/internal/price"
)

const (
	poolDataTTL = 3 * time.Second
	poolInfoTTL = 60 * time.Second
	holdersTTL  = 60 * time.Second
	pricesTTL   = 120 * time.Second
)

// PoolReader reads the raw state of a pool contract.
type PoolReader interface {
	GetPoolData(ctx context.Context, poolAddress string) (*model.PoolData, error)
}

// HolderScanner lists every LP jetton wallet of a pool.
type HolderScanner interface {
	ScanAllLPHolders(ctx context.Context, poolAddress string) ([]model.LPHolder, error)
}

// PriceSource lists priced assets.
type PriceSource interface {
	Assets(ctx context.Context) ([]model.PriceAsset, error)
}

// MetadataFunc resolves a jetton master address ("" for the native coin).
type MetadataFunc func(jettonAddress string) (model.JettonMetadata, error)

// Config wires the engine.
type Config struct {
	Pools      []model.PoolConfig
	LPMetadata model.JettonMetadata
	Metadata   MetadataFunc
	Registerer prometheus.Registerer
	Now        func() time.Time
}

// Engine computes pool and user TVL views. All upstream reads are memoized.
type Engine struct {
	pools      []model.PoolConfig
	lpMetadata model.JettonMetadata
	metadata   MetadataFunc
	logger     *zap.Logger

	poolData *memo.Cache[string, *model.PoolData]
	poolInfo *memo.Cache[string, model.StablePool]
	holders  *memo.Cache[string, []model.LPHolder]
	prices   *memo.Cache[struct{}, []model.PriceAsset]
}

func NewEngine(cfg Config, reader PoolReader, scanner HolderScanner, prices PriceSource, logger *zap.Logger) (*Engine, error) {
	if reader == nil {
		return nil, fmt.Errorf("pool reader is nil")
	}
	if scanner == nil {
		return nil, fmt.Errorf("holder scanner is nil")
	}
	if prices == nil {
		return nil, fmt.Errorf("price source is nil")
	}
	if cfg.Metadata == nil {
		return nil, fmt.Errorf("metadata func is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var metrics *memo.Metrics
	if cfg.Registerer != nil {
		metrics = memo.NewMetrics(cfg.Registerer)
	}
	cacheConfig := func(name string, ttl time.Duration) memo.Config {
		return memo.Config{Name: name, TTL: ttl, Now: cfg.Now, Metrics: metrics}
	}

	e := &Engine{
		pools:      cfg.Pools,
		lpMetadata: cfg.LPMetadata,
		metadata:   cfg.Metadata,
		logger:     logger,
	}
	e.poolData = memo.New(cacheConfig("pool_data", poolDataTTL), reader.GetPoolData)
	e.poolInfo = memo.New(cacheConfig("pool_info", poolInfoTTL), e.loadPoolInfo)
	e.holders = memo.New(cacheConfig("lp_holders", holdersTTL), scanner.ScanAllLPHolders)
	e.prices = memo.New(cacheConfig("prices", pricesTTL), func(ctx context.Context, _ struct{}) ([]model.PriceAsset, error) {
		return prices.Assets(ctx)
	})
	return e, nil
}

// Pools returns the configured pools.
func (e *Engine) Pools() []model.PoolConfig {
	return e.pools
}

// PoolInfo returns the enriched view of one pool. Name and LP metadata are
// left empty; AvailablePools fills them from the configuration.
func (e *Engine) PoolInfo(ctx context.Context, poolAddress string) (model.StablePool, error) {
	return e.poolInfo.Get(ctx, poolAddress)
}

// AvailablePools returns every configured pool in configuration order.
// A failure of any pool fails the call.
func (e *Engine) AvailablePools(ctx context.Context) ([]model.StablePool, error) {
	out := make([]model.StablePool, len(e.pools))
	g, gctx := errgroup.WithContext(ctx)
	for i, pool := range e.pools {
		g.Go(func() error {
			info, err := e.PoolInfo(gctx, pool.Address)
			if err != nil {
				return fmt.Errorf("pool %s (%s): %w", pool.Name, pool.Address, err)
			}
			info.Name = pool.Name
			info.LPMetadata = e.lpMetadata
			out[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableAssets returns the assets of all pools, unique by address, in
// first-seen order.
func (e *Engine) AvailableAssets(ctx context.Context) ([]model.PoolToken, error) {
	pools, err := e.AvailablePools(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]model.PoolToken, 0)
	for _, pool := range pools {
		for _, asset := range pool.Assets {
			if _, ok := seen[asset.Address]; ok {
				continue
			}
			seen[asset.Address] = struct{}{}
			out = append(out, asset)
		}
	}
	return out, nil
}

func (e *Engine) loadPoolInfo(ctx context.Context, poolAddress string) (model.StablePool, error) {
	data, err := e.poolData.Get(ctx, poolAddress)
	if err != nil {
		return model.StablePool{}, fmt.Errorf("get pool data: %w", err)
	}
	if data.Factory == nil {
		return model.StablePool{}, fmt.Errorf("pool data has no factory")
	}

	assets, err := e.decodeAssets(data)
	if err != nil {
		return model.StablePool{}, err
	}

	tokens := make([]model.PoolToken, 0, len(assets))
	for _, asset := range assets {
		addr := asset.Token.Address()
		meta, err := e.metadata(addr)
		if err != nil {
			return model.StablePool{}, fmt.Errorf("metadata %q: %w", addr, err)
		}
		usd, err := e.usdPrice(ctx, meta.Symbol)
		if err != nil {
			return model.StablePool{}, err
		}
		tokens = append(tokens, model.PoolToken{
			Type:     asset.Token.Type,
			Address:  addr,
			USDPrice: usd,
			Reserve:  bigString(asset.Balance),
			Metadata: meta,
		})
	}

	return model.StablePool{
		Address:     poolAddress,
		Factory:     data.Factory.String(),
		A:           bigString(data.A),
		Fee:         bigString(data.Fee),
		DevFee:      bigString(data.AdminFee),
		TotalSupply: bigString(data.TotalSupply),
		TVLUSD:      PoolTVL(tokens),
		Assets:      tokens,
	}, nil
}

func (e *Engine) usdPrice(ctx context.Context, symbol string) (float64, error) {
	assets, err := e.prices.Get(ctx, struct{}{})
	if err != nil {
		return 0, fmt.Errorf("price feed: %w", err)
	}
	usd, ok := price.PriceBySymbol(assets, symbol)
	if !ok {
		e.logger.Warn("no usd price for asset, using 0", zap.String("symbol", symbol))
	}
	return usd, nil
}
