package model

import (
	"encoding/json"
	"testing"

	"github.com/xssnick/tonutils-go/address"
)

func TestStablePoolJSONFieldNames(t *testing.T) {
	pool := StablePool{
		Name:        "3TON",
		Address:     "EQB7Orui1z_dKONoHuglvi2bMUpmD4fw0Z4C2gewD2FP0BpL",
		Factory:     "EQB7Orui1z_dKONoHuglvi2bMUpmD4fw0Z4C2gewD2FP0BpL",
		A:           "200",
		Fee:         "1000000",
		DevFee:      "5000000000",
		TotalSupply: "123456789000000000000",
		TVLUSD:      7.5,
		Assets: []PoolToken{{
			Type:    TokenTypeNative,
			Address: "",
			Reserve: "2000000000",
		}},
	}

	data, err := json.Marshal(pool)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"name", "address", "factory", "A", "fee", "devFee", "totalSupply", "tvlUsd", "lpMetadata", "assets"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
	if _, ok := decoded["totalSupply"].(string); !ok {
		t.Fatalf("totalSupply should be string")
	}
	if _, ok := decoded["tvlUsd"].(float64); !ok {
		t.Fatalf("tvlUsd should be number")
	}

	assets := decoded["assets"].([]interface{})
	asset := assets[0].(map[string]interface{})
	if asset["type"].(float64) != 1 {
		t.Fatalf("native token type should encode as 1, got %v", asset["type"])
	}
	if _, ok := asset["reserve"].(string); !ok {
		t.Fatalf("reserve should be string")
	}
}

func TestTokenAddress(t *testing.T) {
	if got := NativeToken().Address(); got != "" {
		t.Fatalf("native address = %q, want empty", got)
	}

	master := address.MustParseAddr("EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs")
	token := JettonToken(master)
	if token.Address() != "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs" {
		t.Fatalf("jetton address mismatch: %s", token.Address())
	}
	if token.Key() == NativeToken().Key() {
		t.Fatalf("jetton and native keys must differ")
	}
}
