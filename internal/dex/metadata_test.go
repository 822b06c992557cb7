package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupJetton(t *testing.T) {
	native, err := LookupJetton("")
	require.NoError(t, err)
	assert.Equal(t, "TON", native.Symbol)
	assert.EqualValues(t, 9, native.Decimals)

	usdt, err := LookupJetton(usdtMaster)
	require.NoError(t, err)
	assert.Equal(t, "USDT", usdt.Symbol)
	assert.EqualValues(t, 6, usdt.Decimals)

	mainnet, err := LookupJetton("EQC98_qAmNEptUtPc7W6xdHh_ZHrBUFpw5Ft_IzNU20QAJav")
	require.NoError(t, err)
	testnet, err := LookupJetton("EQAcXau46xjqpiflTVsZ61a06RHQoTDDbCEF-6mHdtVRv08D")
	require.NoError(t, err)
	assert.Equal(t, mainnet, testnet)
}

func TestLookupJettonUnknown(t *testing.T) {
	meta, err := LookupJetton("EQ_not_a_listed_jetton")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Empty(t, meta.Symbol)
}

func TestParseMetadataTableRejectsDuplicates(t *testing.T) {
	raw := []byte(`
- addresses: [a]
  symbol: A
  name: A
  decimals: 6
- addresses: [a]
  symbol: B
  name: B
  decimals: 9
`)
	_, err := ParseMetadataTable(raw)
	assert.Error(t, err)
}

func TestDefaultMetadataTable(t *testing.T) {
	table, err := DefaultMetadataTable()
	require.NoError(t, err)
	assert.Equal(t, 9, table.Len())
}
