package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDiscordEmbed(t *testing.T) {
	var received discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, SendDiscordEmbed(context.Background(), server.URL, "Sign-in problem", "Monitoring is paused."))

	require.Len(t, received.Embeds, 1)
	embed := received.Embeds[0]
	assert.Equal(t, "Sign-in problem", embed.Title)
	assert.Equal(t, "Monitoring is paused.", embed.Description)
	assert.Equal(t, discordEmbedColor, embed.Color)
	assert.Equal(t, "rich", embed.Type)
	assert.Equal(t, discordFooterText, embed.Footer.Text)
	assert.Equal(t, discordFooterIconURL, embed.Footer.IconURL)
	assert.NotNil(t, embed.Fields)

	parsed, err := time.Parse(time.RFC3339, embed.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestSendDiscordEmbed_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	assert.Error(t, SendDiscordEmbed(context.Background(), server.URL, "title", "description"))
}
