package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/csgotrader/trader-server/pkg/metrics"
)

const (
	// csgotrader.app text color (#ff8c00)
	discordEmbedColor = 16747520

	discordFooterText    = "CSGO Trader"
	discordFooterIconURL = "https://csgotrader.app/cstlogo48.png"

	discordTimeout = 15 * time.Second
)

type discordEmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url"`
}

type discordEmbed struct {
	Footer      discordEmbedFooter `json:"footer"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Color       int                `json:"color"`
	Fields      []interface{}      `json:"fields"`
	Timestamp   string             `json:"timestamp"`
	Type        string             `json:"type"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// SendDiscordEmbed posts an orange embed to a Discord webhook URL
func SendDiscordEmbed(ctx context.Context, webhookURL, title, description string) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SendDiscordEmbed")
	defer tracer.End()

	err := func() error {
		body, err := json.Marshal(&discordPayload{
			Embeds: []discordEmbed{{
				Footer: discordEmbedFooter{
					Text:    discordFooterText,
					IconURL: discordFooterIconURL,
				},
				Title:       title,
				Description: description,
				Color:       discordEmbedColor,
				Fields:      []interface{}{},
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
				Type:        "rich",
			}},
		})
		if err != nil {
			return errors.Wrap(err, "error marshalling webhook payload")
		}

		req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(err, "error creating http request")
		}
		req.Header.Set("Content-Type", "application/json")

		reqCtx, cancel := context.WithTimeout(ctx, discordTimeout)
		defer cancel()
		req = req.WithContext(reqCtx)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return errors.Wrap(err, "error executing http post request")
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return errors.Errorf("%d status code returned", resp.StatusCode)
		}
		return nil
	}()

	if err != nil {
		tracer.OnError(err)
	}
	return err
}
