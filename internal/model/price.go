package model

// PriceAsset is an entry of the price feed asset list.
type PriceAsset struct {
	Type     string `json:"type"`
	Address  string `json:"address"`
	Price    string `json:"price"`
	Decimals int    `json:"decimals"`
	Symbol   string `json:"symbol"`
}
