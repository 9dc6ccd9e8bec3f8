package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arbscout/internal/model"

	"golang.org/x/time/rate"
)

// ErrNoMappedSymbols is returned when none of the requested symbols has a CoinGecko id.
var ErrNoMappedSymbols = errors.New("no mapped coingecko ids")

// CoinGeckoIDs maps tickers to CoinGecko coin ids.
var CoinGeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"USDC":  "usd-coin",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
}

// CoinGeckoClient implements PriceLookup against the CoinGecko simple price API.
type CoinGeckoClient struct {
	logger  *slog.Logger
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewCoinGeckoClient creates a client. A non-positive rps disables throttling.
func NewCoinGeckoClient(logger *slog.Logger, baseURL string, timeout time.Duration, rps float64) *CoinGeckoClient {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &CoinGeckoClient{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *CoinGeckoClient) GetName() string {
	return "coingecko"
}

type simplePrice struct {
	USD float64 `json:"usd"`
}

// LookupUSD queries all mapped symbols in one request.
func (c *CoinGeckoClient) LookupUSD(ctx context.Context, symbols []string) (map[string]float64, error) {
	bySymbol := make(map[string]string, len(symbols))
	ids := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = model.NormalizeSymbol(s)
		id, ok := CoinGeckoIDs[s]
		if !ok {
			c.logger.Warn("CoinGeckoClient: no coin id for symbol", "symbol", s)
			continue
		}
		if _, seen := bySymbol[s]; !seen {
			ids = append(ids, id)
		}
		bySymbol[s] = id
	}
	if len(ids) == 0 {
		return nil, ErrNoMappedSymbols
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_vol", "true")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build coingecko request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var data map[string]simplePrice
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode coingecko response: %w", err)
	}

	prices := make(map[string]float64, len(bySymbol))
	for symbol, id := range bySymbol {
		if p, ok := data[id]; ok && p.USD > 0 {
			prices[symbol] = p.USD
		}
	}
	c.logger.Debug("CoinGeckoClient: prices fetched", "count", len(prices))
	return prices, nil
}
