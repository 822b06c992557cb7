package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stableTvl/internal/model"
)

func TestClientAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "GetAllAssets", req.OperationName)
		assert.Contains(t, req.Query, "assets { type address price decimals symbol }")

		fmt.Fprint(w, `{"data":{"assets":[
			{"type":"native","address":null,"price":"5.25","decimals":9,"symbol":"TON"},
			{"type":"jetton","address":"EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs","price":"1.0001","decimals":6,"symbol":"USDT"}
		]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	assets, err := client.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "TON", assets[0].Symbol)
	assert.Equal(t, "", assets[0].Address)
	assert.Equal(t, 6, assets[1].Decimals)
}

func TestClientAssetsSchema(t *testing.T) {
	for name, body := range map[string]string{
		"no data":   `{}`,
		"no assets": `{"data":{}}`,
		"bad shape": `{"data":{"assets":{"TON":"5"}}}`,
		"not json":  `upstream error`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, 0, nil).Assets(context.Background())
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestClientAssetsGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"too many requests"}]}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0, nil).Assets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many requests")
}

func TestPriceBySymbol(t *testing.T) {
	assets := []model.PriceAsset{
		{Symbol: "TON", Price: "5.5"},
		{Symbol: "BROKEN", Price: "n/a"},
		{Symbol: "TON", Price: "99"},
	}

	price, ok := PriceBySymbol(assets, "TON")
	assert.True(t, ok)
	assert.Equal(t, 5.5, price)

	price, ok = PriceBySymbol(assets, "USDT")
	assert.False(t, ok)
	assert.Zero(t, price)

	price, ok = PriceBySymbol(assets, "BROKEN")
	assert.False(t, ok)
	assert.Zero(t, price)
}
