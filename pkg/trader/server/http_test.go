package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_MessageRoundTrip(t *testing.T) {
	env := setup(t)

	httpServer := httptest.NewServer(NewRouter(env.bridge))
	defer httpServer.Close()

	resp, err := http.Post(httpServer.URL+"/v1/message", "application/json", bytes.NewBufferString(`{"badgetext": "3"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var reply string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, ReplyOK, reply)

	text, err := env.data.GetBadgeText(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", text)
}

func TestRouter_UnsupportedCommandReply(t *testing.T) {
	env := setup(t)

	httpServer := httptest.NewServer(NewRouter(env.bridge))
	defer httpServer.Close()

	resp, err := http.Post(httpServer.URL+"/v1/message", "application/json", bytes.NewBufferString(`{"doSomethingNew": 1}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var reply UnsupportedReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.True(t, reply.Unsupported)
}

func TestRouter_Health(t *testing.T) {
	env := setup(t)

	httpServer := httptest.NewServer(NewRouter(env.bridge))
	defer httpServer.Close()

	resp, err := http.Get(httpServer.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
