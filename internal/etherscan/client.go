package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Etherscan v2 API root; chain selection happens via
// the chainid parameter.
const DefaultBaseURL = "https://api.etherscan.io/v2/api"

// TxSource exposes the two proxy-module lookups the fee reconciler needs.
// Both return (nil, nil) when the chain has no record for the hash.
type TxSource interface {
	TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error)
	TransactionByHash(ctx context.Context, txHash string) (*Transaction, error)
}

// Receipt carries the raw hexadecimal numerics of a transaction receipt.
type Receipt struct {
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
	Status            string `json:"status"`
}

// Transaction carries the raw numerics of a transaction-by-hash lookup.
type Transaction struct {
	GasPrice string `json:"gasPrice"`
	Gas      string `json:"gas"`
}

// Options parameterise the client.
type Options struct {
	BaseURL string
	APIKey  string
	ChainID int
	Timeout time.Duration
}

// Client talks to the Etherscan v2 proxy module.
type Client struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewClient constructs an Etherscan client. The API key is a hard
// precondition: without it every call would fail, so refuse up front.
func NewClient(opts Options, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("etherscan api key not configured")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		opts:   opts,
		logger: logger.With().Str("component", "etherscan").Logger(),
		client: &http.Client{Timeout: timeout},
	}, nil
}

// TransactionReceipt fetches eth_getTransactionReceipt for the hash.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	var receipt *Receipt
	if err := c.proxyCall(ctx, "eth_getTransactionReceipt", txHash, &receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// TransactionByHash fetches eth_getTransactionByHash for the hash.
func (c *Client) TransactionByHash(ctx context.Context, txHash string) (*Transaction, error) {
	var tx *Transaction
	if err := c.proxyCall(ctx, "eth_getTransactionByHash", txHash, &tx); err != nil {
		return nil, err
	}
	return tx, nil
}

type proxyEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) proxyCall(ctx context.Context, action, txHash string, result any) error {
	q := url.Values{}
	q.Set("chainid", strconv.Itoa(c.opts.ChainID))
	q.Set("module", "proxy")
	q.Set("action", action)
	q.Set("txhash", txHash)
	q.Set("apikey", c.opts.APIKey)

	endpoint := c.opts.BaseURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("etherscan %s: status %d: %s", action, resp.StatusCode, truncate(body, 200))
	}

	var env proxyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("etherscan %s: decode: %w", action, err)
	}
	if env.Error != nil {
		return fmt.Errorf("etherscan %s: %s", action, env.Error.Message)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	return json.Unmarshal(env.Result, result)
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n]
	}
	return s
}

var _ TxSource = (*Client)(nil)
