package price

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stableTvl/internal/model"
)

// DefaultEndpoint is the DeDust v3 GraphQL API.
const DefaultEndpoint = "https://api.dedust.io/v3/graphql"

const getAllAssetsQuery = "query GetAllAssets { assets { type address price decimals symbol } }"

// ErrSchema reports a price feed response of unexpected shape.
var ErrSchema = errors.New("unexpected price feed response")

// Client fetches the asset price list from the DeDust GraphQL API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a price feed client. An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type getAllAssetsResponse struct {
	Data *struct {
		Assets *[]model.PriceAsset `json:"assets"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// Assets returns the full asset list with USD prices.
func (c *Client) Assets(ctx context.Context) ([]model.PriceAsset, error) {
	payload, err := json.Marshal(graphqlRequest{
		OperationName: "GetAllAssets",
		Query:         getAllAssetsQuery,
		Variables:     map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch prices: status %d", resp.StatusCode)
	}

	assets, err := parseAssets(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("price feed fetched", zap.Int("assets", len(assets)))
	return assets, nil
}

func parseAssets(body []byte) ([]model.PriceAsset, error) {
	var resp getAllAssetsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("price feed: %s", strings.Join(messages, "; "))
	}
	if resp.Data == nil || resp.Data.Assets == nil {
		return nil, fmt.Errorf("%w: missing data.assets", ErrSchema)
	}
	return *resp.Data.Assets, nil
}

// PriceBySymbol scans assets for symbol and returns its USD price.
// A missing symbol or an unparsable price yields 0 and false.
func PriceBySymbol(assets []model.PriceAsset, symbol string) (float64, bool) {
	for _, asset := range assets {
		if asset.Symbol != symbol {
			continue
		}
		value, err := strconv.ParseFloat(asset.Price, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}
