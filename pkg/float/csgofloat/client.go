package csgofloat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/csgotrader/trader-server/pkg/float"
	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/retry"
	"github.com/csgotrader/trader-server/pkg/retry/backoff"
	"github.com/csgotrader/trader-server/pkg/steam"
)

const (
	metricsStructName = "float.csgofloat.client"

	baseURL = "https://api.csgofloat.com/"
)

// API documentation: https://github.com/csgofloat/inspect
type client struct {
	httpClient *http.Client
	retrier    retry.Retrier
}

// NewClient returns a float.Client backed by the CSGOFloat inspect API.
func NewClient() float.Client {
	return &client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		retrier: retry.NewRetrier(
			retry.NonRetriableErrors(context.Canceled),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// GetFloatInfo implements float.Client.GetFloatInfo
func (c *client) GetFloatInfo(ctx context.Context, inspectLink string, priceHint *float64) (*float.Info, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetFloatInfo")
	defer tracer.End()

	if inspectLink == "" {
		return nil, float.ErrNoInspectLink
	}

	requestURL := fmt.Sprintf("%s?url=%s", baseURL, inspectLink)
	if priceHint != nil {
		requestURL = fmt.Sprintf("%s&price=%.2f", requestURL, *priceHint)
	}

	var resp response
	if err := c.submitRequest(ctx, requestURL, &resp); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	info, err := resp.toInfo()
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return info, nil
}

func (c *client) submitRequest(ctx context.Context, requestURL string, resp interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	var httpResp *http.Response
	_, err = c.retrier.Retry(
		func() error {
			httpResp, err = c.httpClient.Do(req)
			return err
		},
	)
	if err != nil {
		return errors.Wrap(err, "failed to make request")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		if httpResp.StatusCode >= http.StatusInternalServerError {
			return &steam.StatusError{Code: httpResp.StatusCode}
		}
		return errors.Errorf("received non-200 status code: %d", httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

type response struct {
	ItemInfo *struct {
		FloatValue *float64 `json:"floatvalue"`
		Paintseed  int      `json:"paintseed"`
		Paintindex int      `json:"paintindex"`
		Min        float64  `json:"min"`
		Max        float64  `json:"max"`
		Stickers   []struct {
			Slot int    `json:"slot"`
			Name string `json:"name"`
		} `json:"stickers"`
	} `json:"iteminfo"`
}

func (r response) toInfo() (*float.Info, error) {
	// A payload without the float field is malformed, never "no float"
	if r.ItemInfo == nil || r.ItemInfo.FloatValue == nil {
		return nil, errors.New("float value missing from response")
	}

	if *r.ItemInfo.FloatValue == 0 {
		return nil, float.ErrNoFloat
	}

	info := &float.Info{
		FloatValue: *r.ItemInfo.FloatValue,
		Paintseed:  r.ItemInfo.Paintseed,
		Paintindex: r.ItemInfo.Paintindex,
		Low:        r.ItemInfo.Min,
		High:       r.ItemInfo.Max,
		FetchedAt:  time.Now(),
	}
	for _, sticker := range r.ItemInfo.Stickers {
		info.Stickers = append(info.Stickers, float.Sticker{
			Slot: sticker.Slot,
			Name: sticker.Name,
		})
	}

	return info, nil
}
