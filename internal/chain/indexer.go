package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stableTvl/internal/model"
)

// DefaultPageSize is the number of holders requested per indexer page.
const DefaultPageSize = 1000

// Indexer queries LP holders through the toncenter v3 REST API.
type Indexer struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewIndexer creates an indexer client. Zero values select the defaults.
func NewIndexer(baseURL string, pageSize int, timeout time.Duration, logger *zap.Logger) (*Indexer, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type jettonWalletsResponse struct {
	JettonWallets *[]jettonWallet `json:"jetton_wallets"`
}

type jettonWallet struct {
	Address           *string `json:"address"`
	Balance           *string `json:"balance"`
	Owner             *string `json:"owner"`
	Jetton            *string `json:"jetton"`
	LastTransactionLT *string `json:"last_transaction_lt"`
}

// GetLPHolders returns one page of jetton wallets of a pool LP token.
func (i *Indexer) GetLPHolders(ctx context.Context, poolAddress string, limit, offset int) ([]model.LPHolder, error) {
	params := url.Values{}
	params.Set("jetton_address", poolAddress)
	params.Set("exclude_zero_balance", "false")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	body, err := getJSON(ctx, i.httpClient, i.baseURL+"/v3/jetton/wallets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch lp holders: %w", err)
	}

	holders, err := parseJettonWallets(body)
	if err != nil {
		return nil, fmt.Errorf("lp holders of %s at offset %d: %w", poolAddress, offset, err)
	}
	return holders, nil
}

func parseJettonWallets(body []byte) ([]model.LPHolder, error) {
	var resp jettonWalletsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrSchema, err, truncate(body, 256))
	}
	if resp.JettonWallets == nil {
		return nil, fmt.Errorf("%w: missing jetton_wallets: %s", ErrSchema, truncate(body, 256))
	}

	holders := make([]model.LPHolder, 0, len(*resp.JettonWallets))
	for n, w := range *resp.JettonWallets {
		if w.Address == nil || w.Balance == nil || w.Owner == nil || w.Jetton == nil || w.LastTransactionLT == nil {
			return nil, fmt.Errorf("%w: jetton wallet %d is missing fields", ErrSchema, n)
		}
		holders = append(holders, model.LPHolder{
			Address:           *w.Address,
			Balance:           *w.Balance,
			Owner:             *w.Owner,
			Jetton:            *w.Jetton,
			LastTransactionLT: *w.LastTransactionLT,
		})
	}
	return holders, nil
}

// ScanAllLPHolders pages through all holders of a pool LP token until the
// indexer returns an empty page. Pages are concatenated without dedup.
func (i *Indexer) ScanAllLPHolders(ctx context.Context, poolAddress string) ([]model.LPHolder, error) {
	var holders []model.LPHolder
	offset := 0
	pages := 0
	for {
		page, err := i.GetLPHolders(ctx, poolAddress, i.pageSize, offset)
		if err != nil {
			return nil, err
		}
		pages++
		if len(page) == 0 {
			break
		}
		holders = append(holders, page...)
		offset += i.pageSize
	}

	i.logger.Debug("lp holders scanned",
		zap.String("pool", poolAddress),
		zap.Int("holders", len(holders)),
		zap.Int("pages", pages),
	)
	if holders == nil {
		holders = []model.LPHolder{}
	}
	return holders, nil
}
