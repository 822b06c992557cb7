package aggregate

import (
	"fmt"
	"math/big"

	"stableTvl/internal/dex"
	"stableTvl/internal/model"
)

// precisionMultiplier keeps four fractional digits of a reserve when it is
// shifted by the token decimals in integer arithmetic.
const precisionMultiplier = 10000

// PoolTVL sums usdPrice * reserve / 10^decimals over the pool tokens.
// Reserves are truncated to four decimal places before the float multiply.
func PoolTVL(tokens []model.PoolToken) float64 {
	var total float64
	for _, token := range tokens {
		total += tokenTVL(token)
	}
	return total
}

func tokenTVL(token model.PoolToken) float64 {
	reserve, ok := new(big.Int).SetString(token.Reserve, 10)
	if !ok {
		return 0
	}
	return token.USDPrice * scaledFloat(reserve, token.Metadata.Decimals) / precisionMultiplier
}

// scaledFloat returns reserve * precisionMultiplier / 10^decimals as a float.
func scaledFloat(reserve *big.Int, decimals uint8) float64 {
	scaled := new(big.Int).Mul(reserve, big.NewInt(precisionMultiplier))
	scaled.Quo(scaled, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	f, _ := new(big.Float).SetInt(scaled).Float64()
	return f
}

func (e *Engine) decodeAssets(data *model.PoolData) ([]model.Asset, error) {
	assets, err := dex.DecodeAssets(data.Assets)
	if err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	return assets, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
