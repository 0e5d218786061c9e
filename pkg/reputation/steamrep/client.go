package steamrep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/reputation"
	"github.com/csgotrader/trader-server/pkg/retry"
	"github.com/csgotrader/trader-server/pkg/retry/backoff"
)

const (
	metricsStructName = "reputation.steamrep.client"

	profileURLFormat = "https://steamrep.com/api/beta4/reputation/%s?json=1"
)

type client struct {
	httpClient *http.Client
	retrier    retry.Retrier
}

// NewClient returns a reputation.Client backed by the SteamRep API.
func NewClient() reputation.Client {
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

// GetReputation implements reputation.Client.GetReputation
func (c *client) GetReputation(ctx context.Context, steamID string) (*reputation.Info, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetReputation")
	defer tracer.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(profileURLFormat, steamID), http.NoBody)
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "failed to create request")
	}

	var httpResp *http.Response
	_, err = c.retrier.Retry(
		func() error {
			httpResp, err = c.httpClient.Do(req)
			return err
		},
	)
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "failed to make request")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		err := errors.Errorf("received non-200 status code: %d", httpResp.StatusCode)
		tracer.OnError(err)
		return nil, err
	}

	var resp struct {
		SteamRep struct {
			SteamID    string `json:"steamID64"`
			Reputation struct {
				Summary string `json:"summary"`
			} `json:"reputation"`
			Flags struct {
				Status string `json:"status"`
			} `json:"flags"`
		} `json:"steamrep"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		err = errors.Wrap(err, "failed to decode response")
		tracer.OnError(err)
		return nil, err
	}

	return &reputation.Info{
		SteamID:    resp.SteamRep.SteamID,
		Reputation: resp.SteamRep.Reputation.Summary,
		Flags:      resp.SteamRep.Flags.Status,
	}, nil
}
