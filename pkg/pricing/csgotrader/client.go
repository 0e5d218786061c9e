package csgotrader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/pricing"
	"github.com/csgotrader/trader-server/pkg/retry"
	"github.com/csgotrader/trader-server/pkg/retry/backoff"
)

const (
	metricsStructName = "pricing.csgotrader.client"

	pricesURL        = "https://prices.csgotrader.app/latest/prices_v6.json"
	exchangeRatesURL = "https://prices.csgotrader.app/latest/exchange_rates.json"
	marketPageURL    = "https://steamcommunity.com/market/"
)

var walletCurrencyPattern = regexp.MustCompile(`"wallet_currency":(\d+)`)

// Steam wallet currency ids to ISO 4217 codes, for local-currency detection.
var walletCurrencyCodes = map[string]string{
	"1":  "USD",
	"2":  "GBP",
	"3":  "EUR",
	"4":  "CHF",
	"5":  "RUB",
	"6":  "PLN",
	"7":  "BRL",
	"8":  "JPY",
	"9":  "NOK",
	"10": "IDR",
	"11": "MYR",
	"12": "PHP",
	"13": "SGD",
	"14": "THB",
	"15": "VND",
	"16": "KRW",
	"17": "TRY",
	"18": "UAH",
	"19": "MXN",
	"20": "CAD",
	"21": "AUD",
	"22": "NZD",
	"23": "CNY",
	"24": "INR",
	"25": "CLP",
	"26": "PEN",
	"27": "COP",
	"28": "ZAR",
	"29": "HKD",
	"30": "TWD",
	"31": "SAR",
	"32": "AED",
	"34": "ARS",
	"35": "ILS",
	"37": "KZT",
	"38": "KWD",
	"39": "QAR",
	"40": "CRC",
	"41": "UYU",
}

type client struct {
	httpClient *http.Client
	retrier    retry.Retrier
}

// NewClient returns a pricing.Client backed by the csgotrader.app price
// aggregates and the Steam community site for currency detection.
func NewClient() pricing.Client {
	return &client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retrier: retry.NewRetrier(
			retry.NonRetriableErrors(context.Canceled),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// GetExchangeRates implements pricing.Client.GetExchangeRates
func (c *client) GetExchangeRates(ctx context.Context) (map[string]float64, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetExchangeRates")
	defer tracer.End()

	rates := make(map[string]float64)
	if err := c.getJSON(ctx, exchangeRatesURL, &rates); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	if len(rates) == 0 {
		err := errors.New("exchange rates missing from response")
		tracer.OnError(err)
		return nil, err
	}

	return rates, nil
}

// GetPrices implements pricing.Client.GetPrices
func (c *client) GetPrices(ctx context.Context) (map[string]pricing.ItemPrice, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetPrices")
	defer tracer.End()

	var raw map[string]struct {
		CSGOTrader struct {
			Price float64 `json:"price"`
		} `json:"csgotrader"`
	}
	if err := c.getJSON(ctx, pricesURL, &raw); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	prices := make(map[string]pricing.ItemPrice, len(raw))
	for name, entry := range raw {
		prices[name] = pricing.ItemPrice{Price: entry.CSGOTrader.Price}
	}

	return prices, nil
}

// GuessUserCurrency implements pricing.Client.GuessUserCurrency
func (c *client) GuessUserCurrency(ctx context.Context) (string, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GuessUserCurrency")
	defer tracer.End()

	body, err := c.getBody(ctx, marketPageURL)
	if err != nil {
		tracer.OnError(err)
		return "", err
	}

	match := walletCurrencyPattern.FindStringSubmatch(body)
	if match == nil {
		return "", pricing.ErrCurrencyUnknown
	}

	code, ok := walletCurrencyCodes[match[1]]
	if !ok {
		return "", pricing.ErrCurrencyUnknown
	}

	return code, nil
}

func (c *client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	body, err := c.getBody(ctx, requestURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

func (c *client) getBody(ctx context.Context, requestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	var httpResp *http.Response
	_, err = c.retrier.Retry(
		func() error {
			httpResp, err = c.httpClient.Do(req)
			return err
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to make request")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", errors.Errorf("received non-200 status code: %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	return string(body), nil
}
