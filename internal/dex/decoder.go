package dex

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"stableTvl/internal/model"
)

// MaxAssets bounds the length of an assets cell chain.
const MaxAssets = 64

// ErrDecode reports a malformed assets cell.
var ErrDecode = errors.New("decode assets")

// DecodeAssets walks the assets cell chain of a pool and returns one Asset per
// cell, in chain order.
func DecodeAssets(root *cell.Cell) ([]model.Asset, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil cell", ErrDecode)
	}

	assets := make([]model.Asset, 0, 4)
	seen := make(map[string]struct{}, 4)

	next := root.BeginParse()
	for next != nil {
		if len(assets) >= MaxAssets {
			return nil, fmt.Errorf("%w: chain longer than %d cells", ErrDecode, MaxAssets)
		}
		index := len(assets)

		token, err := loadToken(next)
		if err != nil {
			return nil, fmt.Errorf("%w: asset %d: %v", ErrDecode, index, err)
		}
		precision, err := next.LoadBigCoins()
		if err != nil {
			return nil, fmt.Errorf("%w: asset %d precision: %v", ErrDecode, index, err)
		}
		balance, err := next.LoadBigCoins()
		if err != nil {
			return nil, fmt.Errorf("%w: asset %d balance: %v", ErrDecode, index, err)
		}
		adminFees, err := next.LoadBigCoins()
		if err != nil {
			return nil, fmt.Errorf("%w: asset %d admin fees: %v", ErrDecode, index, err)
		}

		key := token.Key()
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: asset %d: duplicate token %s", ErrDecode, index, key)
		}
		seen[key] = struct{}{}

		assets = append(assets, model.Asset{
			Token:     token,
			Precision: precision,
			Balance:   balance,
			AdminFees: adminFees,
		})

		next, err = next.LoadMaybeRef()
		if err != nil {
			return nil, fmt.Errorf("%w: asset %d next ref: %v", ErrDecode, index, err)
		}
	}

	return assets, nil
}

func loadToken(slice *cell.Slice) (model.Token, error) {
	tag, err := slice.LoadUInt(2)
	if err != nil {
		return model.Token{}, fmt.Errorf("token tag: %w", err)
	}

	switch model.TokenType(tag) {
	case model.TokenTypeJetton:
		master, err := slice.LoadAddr()
		if err != nil {
			return model.Token{}, fmt.Errorf("jetton master: %w", err)
		}
		return model.JettonToken(NormalizeAddr(master)), nil
	case model.TokenTypeNative:
		return model.NativeToken(), nil
	default:
		return model.Token{}, fmt.Errorf("invalid token type %d", tag)
	}
}

// EncodeAssets serializes assets into the chain layout read by DecodeAssets.
func EncodeAssets(assets []model.Asset) (*cell.Cell, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets to encode")
	}

	var next *cell.Cell
	for i := len(assets) - 1; i >= 0; i-- {
		asset := assets[i]
		builder := cell.BeginCell()
		if err := storeToken(builder, asset.Token); err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
		for _, value := range []*big.Int{asset.Precision, asset.Balance, asset.AdminFees} {
			if value == nil {
				value = big.NewInt(0)
			}
			if err := builder.StoreBigCoins(value); err != nil {
				return nil, fmt.Errorf("asset %d coins: %w", i, err)
			}
		}
		if err := builder.StoreMaybeRef(next); err != nil {
			return nil, fmt.Errorf("asset %d next ref: %w", i, err)
		}
		next = builder.EndCell()
	}
	return next, nil
}

func storeToken(builder *cell.Builder, token model.Token) error {
	switch token.Type {
	case model.TokenTypeJetton:
		if token.JettonMaster == nil {
			return fmt.Errorf("jetton token without master address")
		}
		if err := builder.StoreUInt(uint64(model.TokenTypeJetton), 2); err != nil {
			return err
		}
		return builder.StoreAddr(token.JettonMaster)
	case model.TokenTypeNative:
		return builder.StoreUInt(uint64(model.TokenTypeNative), 2)
	default:
		return fmt.Errorf("invalid token type %d", token.Type)
	}
}

// NormalizeAddr makes addresses read from cells print in the bounceable
// mainnet form used by the metadata table and the public API.
func NormalizeAddr(addr *address.Address) *address.Address {
	if addr == nil {
		return nil
	}
	addr.SetBounce(true)
	addr.SetTestnetOnly(false)
	return addr
}
