package eventservices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
	"github.com/akormos/alert-trading/src/utils"
)

// BrokerAPIClient talks to the brokerage's REST API. Quote streaming is
// handled separately over a websocket session (see quote_stream.go).
type BrokerAPIClient struct {
	baseURL   string
	streamURL string
	token     string
	accountID string
}

func NewBrokerAPIClient(baseURL, streamURL, token, accountID string) *BrokerAPIClient {
	return &BrokerAPIClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		streamURL: streamURL,
		token:     token,
		accountID: accountID,
	}
}

func (c *BrokerAPIClient) PrimaryAccountID() string {
	return c.accountID
}

func (c *BrokerAPIClient) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("BrokerAPIClient.get(): failed to create request: %w", err)
	}

	q := req.URL.Query()
	for k, v := range query {
		q.Add(k, v)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("BrokerAPIClient.get(): request failed: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BrokerAPIClient.get(): %s returned %s", path, res.Status)
	}

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("BrokerAPIClient.get(): failed to read response body: %w", err)
	}

	return bytes, nil
}

func (c *BrokerAPIClient) FetchPositions(ctx context.Context) ([]eventmodels.BrokerPositionDTO, error) {
	path := fmt.Sprintf("/accounts/%s/positions", c.accountID)

	bytes, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchPositions: failed to fetch positions: %w", err)
	}

	positions, err := utils.ParseBrokerResponse[eventmodels.BrokerPositionDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("FetchPositions: failed to parse response: %w", err)
	}

	return positions, nil
}

func (c *BrokerAPIClient) FetchBalances(ctx context.Context) (*eventmodels.BrokerBalancesDTO, error) {
	path := fmt.Sprintf("/accounts/%s/balances", c.accountID)

	bytes, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchBalances: failed to fetch balances: %w", err)
	}

	var response struct {
		Balances eventmodels.BrokerBalancesDTO `json:"balances"`
	}
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, fmt.Errorf("FetchBalances: failed to parse response: %w", err)
	}

	return &response.Balances, nil
}

func (c *BrokerAPIClient) FetchCashBalances(ctx context.Context) ([]eventmodels.CashBalanceDTO, error) {
	path := fmt.Sprintf("/accounts/%s/cash", c.accountID)

	bytes, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchCashBalances: failed to fetch cash balances: %w", err)
	}

	balances, err := utils.ParseBrokerResponse[eventmodels.CashBalanceDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("FetchCashBalances: failed to parse response: %w", err)
	}

	return balances, nil
}

// LookupOptionContract resolves a (symbol, expiry, strike, type) tuple to a
// tradable contract by querying the option chain for the expiration.
func (c *BrokerAPIClient) LookupOptionContract(ctx context.Context, symbol string, expiry string, strike float64, optionType eventmodels.OptionType) (*eventmodels.OptionContractDTO, error) {
	expiration, err := formatChainExpiration(expiry)
	if err != nil {
		return nil, fmt.Errorf("LookupOptionContract: %w", err)
	}

	bytes, err := c.get(ctx, "/markets/options/chains", map[string]string{
		"symbol":     strings.ToUpper(symbol),
		"expiration": expiration,
	})
	if err != nil {
		return nil, fmt.Errorf("LookupOptionContract: failed to fetch option chain: %w", err)
	}

	contracts, err := utils.ParseBrokerResponse[eventmodels.OptionContractDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("LookupOptionContract: failed to parse response: %w", err)
	}

	for _, contract := range contracts {
		if contract.Strike == strike && contract.OptionType == string(optionType) {
			found := contract
			return &found, nil
		}
	}

	return nil, fmt.Errorf("LookupOptionContract: no tradable contract for %s %s %v %s", symbol, expiry, strike, optionType)
}

func (c *BrokerAPIClient) PlaceOptionOrder(ctx context.Context, orderReq *PlaceOptionOrderRequest) (string, error) {
	if orderReq.Quantity <= 0 {
		return "", fmt.Errorf("PlaceOptionOrder: quantity must be positive")
	}

	if orderReq.OrderType == OrderTypeLimit && orderReq.LimitPrice == nil {
		return "", fmt.Errorf("PlaceOptionOrder: limit order requires a price")
	}

	client := http.Client{
		Timeout: 10 * time.Second,
	}

	path := fmt.Sprintf("/accounts/%s/orders", orderReq.AccountID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("PlaceOptionOrder: failed to create request: %w", err)
	}

	side := "buy_to_open"
	if orderReq.Action == eventmodels.TradeActionSell {
		side = "sell_to_close"
	}

	q := httpReq.URL.Query()
	q.Add("class", "option")
	q.Add("symbol", strings.ToUpper(orderReq.Underlying))
	q.Add("option_symbol", orderReq.ContractSymbol)
	q.Add("side", side)
	q.Add("quantity", strconv.Itoa(orderReq.Quantity))
	q.Add("type", string(orderReq.OrderType))
	q.Add("duration", "gtc")

	if orderReq.LimitPrice != nil {
		q.Add("price", fmt.Sprintf("%.2f", *orderReq.LimitPrice))
	}

	if orderReq.OutsideRTH {
		q.Add("outside_rth", "true")
	}

	if orderReq.Tag != "" {
		q.Add("tag", orderReq.Tag)
	}

	httpReq.URL.RawQuery = q.Encode()
	httpReq.Header.Add("Accept", "application/json")
	httpReq.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))

	log.Infof("PlaceOptionOrder: placing order: %v", httpReq.URL.String())

	res, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("PlaceOptionOrder: failed to place order: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("PlaceOptionOrder: failed to place order, http code %v", res.Status)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("PlaceOptionOrder: failed to decode response: %w", err)
	}

	if e, found := response["errors"]; found {
		return "", fmt.Errorf("PlaceOptionOrder: %w: %v", ErrOrderRejected, e)
	}

	order, ok := response["order"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("PlaceOptionOrder: unexpected response shape: %v", response)
	}

	id, ok := order["id"].(float64)
	if !ok {
		return "", fmt.Errorf("PlaceOptionOrder: missing order id in response: %v", response)
	}

	log.Infof("PlaceOptionOrder: placed order %v", id)

	return strconv.Itoa(int(id)), nil
}

func (c *BrokerAPIClient) FetchOrders(ctx context.Context) ([]eventmodels.BrokerOrderDTO, error) {
	path := fmt.Sprintf("/accounts/%s/orders", c.accountID)

	bytes, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchOrders: failed to fetch orders: %w", err)
	}

	orders, err := utils.ParseBrokerResponse[eventmodels.BrokerOrderDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("FetchOrders: failed to parse response: %w", err)
	}

	return orders, nil
}

func (c *BrokerAPIClient) CancelOrder(ctx context.Context, orderID string) error {
	client := http.Client{
		Timeout: 10 * time.Second,
	}

	path := fmt.Sprintf("/accounts/%s/orders/%s", c.accountID, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("CancelOrder: failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("CancelOrder: failed to cancel order %s: %w", orderID, err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("CancelOrder: failed to cancel order %s: %s", orderID, res.Status)
	}

	return nil
}

func (c *BrokerAPIClient) FetchExecutions(ctx context.Context) ([]eventmodels.BrokerExecutionDTO, error) {
	path := fmt.Sprintf("/accounts/%s/history", c.accountID)

	bytes, err := c.get(ctx, path, map[string]string{"type": "trade"})
	if err != nil {
		return nil, fmt.Errorf("FetchExecutions: failed to fetch executions: %w", err)
	}

	executions, err := utils.ParseBrokerResponse[eventmodels.BrokerExecutionDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("FetchExecutions: failed to parse response: %w", err)
	}

	return executions, nil
}

// formatChainExpiration converts YYYYMMDD to the YYYY-MM-DD form the chain
// endpoint expects.
func formatChainExpiration(expiry string) (string, error) {
	t, err := time.Parse("20060102", expiry)
	if err != nil {
		return "", fmt.Errorf("invalid expiry %q: %w", expiry, err)
	}

	return t.Format("2006-01-02"), nil
}
