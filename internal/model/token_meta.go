package model

// JettonMetadata is the display metadata of a token.
type JettonMetadata struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	LogoURI  string `json:"logoURI" yaml:"logoURI"`
}
