package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stableTvl/internal/model"
)

type fakeService struct {
	assets []model.PoolToken
	pools  []model.StablePool
	users  model.UsersTvl
	err    error
}

func (f *fakeService) AvailableAssets(context.Context) ([]model.PoolToken, error) {
	return f.assets, f.err
}

func (f *fakeService) AvailablePools(context.Context) ([]model.StablePool, error) {
	return f.pools, f.err
}

func (f *fakeService) TvlByUsers(context.Context) (model.UsersTvl, error) {
	return f.users, f.err
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRoot(t *testing.T) {
	h := NewHandler(&fakeService{}, nil, nil)

	rec := serve(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = serve(t, h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPoolsAndAssets(t *testing.T) {
	svc := &fakeService{
		assets: []model.PoolToken{{Type: model.TokenTypeNative, Address: "", USDPrice: 5, Reserve: "2000000000",
			Metadata: model.JettonMetadata{Symbol: "TON", Name: "TON", Decimals: 9}}},
		pools: []model.StablePool{{Name: "3TON", Address: "EQpool", TVLUSD: 11.5, TotalSupply: "1000"}},
	}
	h := NewHandler(svc, nil, nil)

	rec := serve(t, h, http.MethodGet, "/assets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var assets []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assets))
	require.Len(t, assets, 1)
	assert.Equal(t, float64(1), assets[0]["type"])
	assert.Equal(t, "2000000000", assets[0]["reserve"])

	rec = serve(t, h, http.MethodGet, "/tvl/pools")
	require.Equal(t, http.StatusOK, rec.Code)
	var pools []model.StablePool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pools))
	assert.Equal(t, svc.pools, pools)
}

func TestUsers(t *testing.T) {
	svc := &fakeService{users: model.UsersTvl{
		TotalTVL: 20,
		Users:    []model.UserTvl{{Address: "alice", TVLUSD: "2.75"}},
	}}
	h := NewHandler(svc, nil, nil)

	rec := serve(t, h, http.MethodGet, "/tvl/users")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalTvl":20,"users":[{"address":"alice","tvlUsd":"2.75"}]}`, rec.Body.String())
}

func TestServiceError(t *testing.T) {
	h := NewHandler(&fakeService{err: errors.New("rpc down")}, nil, nil)

	for _, path := range []string{"/assets", "/tvl/pools", "/tvl/users"} {
		rec := serve(t, h, http.MethodGet, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.JSONEq(t, `{"error":"rpc down"}`, rec.Body.String(), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestPreflight(t *testing.T) {
	h := NewHandler(&fakeService{}, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/tvl/pools", nil)
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestRequestIDPropagated(t *testing.T) {
	h := NewHandler(&fakeService{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "stabletvl_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	rec := serve(t, NewHandler(&fakeService{}, reg, nil), http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "stabletvl_test_total 1"))

	rec = serve(t, NewHandler(&fakeService{}, nil, nil), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
