package chain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
	"go.uber.org/zap"

	"stableTvl/internal/model"
)

// DefaultTimeout is the transport timeout for contract reads.
const DefaultTimeout = 10 * time.Second

var (
	// ErrGetMethod reports a get-method that did not return a usable stack.
	ErrGetMethod = errors.New("get method failed")
	// ErrSchema reports an upstream response of unexpected shape.
	ErrSchema = errors.New("unexpected response schema")
)

// Client reads contract state through a TON v4 HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a v4 API client. A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("v4 api url is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// LatestSeqno returns the last known masterchain block seqno.
func (c *Client) LatestSeqno(ctx context.Context) (uint64, error) {
	body, err := c.get(ctx, "/block/latest")
	if err != nil {
		return 0, err
	}
	seqno := gjson.GetBytes(body, "last.seqno")
	if !seqno.Exists() {
		return 0, fmt.Errorf("%w: latest block without last.seqno", ErrSchema)
	}
	return seqno.Uint(), nil
}

// RunGetMethod executes a get-method without arguments at the given block and
// returns the result stack, first returned value first.
func (c *Client) RunGetMethod(ctx context.Context, seqno uint64, addr string, method string) ([]any, error) {
	path := fmt.Sprintf("/block/%d/%s/run/%s", seqno, url.PathEscape(addr), url.PathEscape(method))
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	exitCode := gjson.GetBytes(body, "exitCode")
	if !exitCode.Exists() {
		return nil, fmt.Errorf("%w: run %s without exitCode", ErrSchema, method)
	}
	if code := exitCode.Int(); code != 0 && code != 1 {
		return nil, fmt.Errorf("%w: %s on %s exited with code %d", ErrGetMethod, method, addr, code)
	}

	raw := gjson.GetBytes(body, "resultRaw").String()
	if raw == "" {
		return nil, fmt.Errorf("%w: %s on %s returned no stack", ErrGetMethod, method, addr)
	}
	return parseStack(raw)
}

// GetPoolData invokes get_pool_data on a pool at the latest block.
func (c *Client) GetPoolData(ctx context.Context, poolAddress string) (*model.PoolData, error) {
	seqno, err := c.LatestSeqno(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}

	stack, err := c.RunGetMethod(ctx, seqno, poolAddress, "get_pool_data")
	if err != nil {
		return nil, err
	}

	data, err := readPoolData(newStackReader(stack))
	if err != nil {
		return nil, fmt.Errorf("get_pool_data on %s: %w", poolAddress, err)
	}

	c.logger.Debug("pool data",
		zap.String("pool", poolAddress),
		zap.Uint64("seqno", seqno),
		zap.String("total_supply", data.TotalSupply.String()),
	)
	return data, nil
}

func readPoolData(r *stackReader) (*model.PoolData, error) {
	var (
		data model.PoolData
		err  error
	)
	if data.Factory, err = r.Address(); err != nil {
		return nil, fmt.Errorf("factory: %w", err)
	}
	contractType, err := r.Int()
	if err != nil {
		return nil, fmt.Errorf("contract type: %w", err)
	}
	if !contractType.IsInt64() {
		return nil, fmt.Errorf("contract type out of range: %s", contractType)
	}
	data.ContractType = contractType.Int64()
	if data.Assets, err = r.Cell(); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	if data.Rates, err = r.Cell(); err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	if data.A, err = r.Int(); err != nil {
		return nil, fmt.Errorf("A: %w", err)
	}
	if data.Fee, err = r.Int(); err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}
	if data.AdminFee, err = r.Int(); err != nil {
		return nil, fmt.Errorf("admin fee: %w", err)
	}
	if data.TotalSupply, err = r.Int(); err != nil {
		return nil, fmt.Errorf("total supply: %w", err)
	}
	if data.RatesManager, err = r.Address(); err != nil {
		return nil, fmt.Errorf("rates manager: %w", err)
	}
	return &data, nil
}

func parseStack(raw string) ([]any, error) {
	boc, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		boc, err = base64.URLEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: result stack is not base64: %v", ErrSchema, err)
		}
	}

	root, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("%w: result stack boc: %v", ErrSchema, err)
	}

	stack := tlb.NewStack()
	if err := stack.LoadFromCell(root.BeginParse()); err != nil {
		return nil, fmt.Errorf("%w: result stack: %v", ErrSchema, err)
	}

	values := make([]any, 0, stack.Depth())
	for stack.Depth() > 0 {
		v, err := stack.Pop()
		if err != nil {
			return nil, fmt.Errorf("%w: pop stack: %v", ErrSchema, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return getJSON(ctx, c.httpClient, c.baseURL+path)
}

func getJSON(ctx context.Context, httpClient *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d: %s", redactQuery(endpoint), resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

func redactQuery(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
