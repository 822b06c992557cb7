package dex

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"stableTvl/internal/model"
)

// ErrUnknownToken reports a token missing from the metadata table.
var ErrUnknownToken = errors.New("unknown token")

// LPMetadata is the display metadata of every pool LP jetton.
var LPMetadata = model.JettonMetadata{
	Symbol:   "crtLP",
	Name:     "Crouton LP",
	Decimals: 18,
	LogoURI:  "https://croutonfi.ams3.digitaloceanspaces.com/crouton.jpg",
}

//go:embed jettons.yaml
var jettonsYAML []byte

type jettonEntry struct {
	Addresses            []string `yaml:"addresses"`
	model.JettonMetadata `yaml:",inline"`
}

// MetadataTable maps jetton master addresses to display metadata.
type MetadataTable struct {
	data map[string]model.JettonMetadata
}

// ParseMetadataTable parses a YAML list of jetton entries.
func ParseMetadataTable(raw []byte) (*MetadataTable, error) {
	var entries []jettonEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse jetton table: %w", err)
	}

	table := &MetadataTable{data: make(map[string]model.JettonMetadata)}
	for i, entry := range entries {
		if len(entry.Addresses) == 0 {
			return nil, fmt.Errorf("jetton entry %d (%s) has no addresses", i, entry.Symbol)
		}
		for _, addr := range entry.Addresses {
			if _, ok := table.data[addr]; ok {
				return nil, fmt.Errorf("duplicate jetton address %q", addr)
			}
			table.data[addr] = entry.JettonMetadata
		}
	}
	return table, nil
}

// Lookup returns the metadata of a jetton master address ("" is the native coin).
func (t *MetadataTable) Lookup(jettonAddress string) (model.JettonMetadata, error) {
	meta, ok := t.data[jettonAddress]
	if !ok {
		return model.JettonMetadata{}, fmt.Errorf("%w: %q", ErrUnknownToken, jettonAddress)
	}
	return meta, nil
}

// Len returns the number of addresses in the table.
func (t *MetadataTable) Len() int {
	return len(t.data)
}

var (
	defaultTable    *MetadataTable
	defaultTableErr error
	defaultOnce     sync.Once
)

// DefaultMetadataTable returns the built-in jetton table.
func DefaultMetadataTable() (*MetadataTable, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultTableErr = ParseMetadataTable(jettonsYAML)
	})
	return defaultTable, defaultTableErr
}

// LookupJetton resolves an address against the built-in table.
func LookupJetton(jettonAddress string) (model.JettonMetadata, error) {
	table, err := DefaultMetadataTable()
	if err != nil {
		return model.JettonMetadata{}, err
	}
	return table.Lookup(jettonAddress)
}
