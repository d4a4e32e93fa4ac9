package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet"
	"github.com/aretw0/bayesnet/pkg/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := bayesnet.New()
	require.NoError(t, err)
	return NewServer(engine, nil)
}

func TestHandleAsk(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleAsk(context.Background(), mcp.CallToolRequest{}, AskArgs{
		Network:  "toothache",
		Query:    "Cavity",
		Evidence: map[string]any{"Toothache": true, "Catch": "false"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RequestID)
	require.NotNil(t, resp.Posterior)
	assert.Equal(t, map[string]string{"Toothache": "true", "Catch": "false"}, resp.Posterior.Evidence)

	// 0.2*0.6*0.1 / (0.2*0.6*0.1 + 0.8*0.1*0.8)
	cavity, ok := resp.Posterior.Probability("true")
	require.True(t, ok)
	assert.InDelta(t, 0.012/0.076, cavity, 0.05)
}

func TestHandleAsk_Errors(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleAsk(context.Background(), mcp.CallToolRequest{}, AskArgs{Network: "nope", Query: "A"})
	assert.ErrorIs(t, err, domain.ErrNetworkNotFound)

	_, err = s.handleAsk(context.Background(), mcp.CallToolRequest{}, AskArgs{Network: "burglary", Query: " , "})
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestHandleDescribe(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleDescribe(context.Background(), mcp.CallToolRequest{}, NetworkArgs{Network: "umbrella-dbn"})
	require.NoError(t, err)
	assert.True(t, resp.Network.Dynamic)
	assert.Contains(t, resp.Mermaid, "Rain_t_1 -.-> Rain_t")
}

func TestHandleSample(t *testing.T) {
	s := newTestServer(t)

	event, err := s.handleSample(context.Background(), mcp.CallToolRequest{}, NetworkArgs{Network: "sprinkler"})
	require.NoError(t, err)
	assert.Len(t, event, 4)
}

func TestHandleListNetworks(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListNetworks(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var infos []domain.NetworkInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &infos))
	assert.Len(t, infos, 5)
}

func TestReadNetworks(t *testing.T) {
	s := newTestServer(t)

	contents, err := s.readNetworks(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, NetworksURI, text.URI)
	assert.Contains(t, text.Text, `"rain-umbrella"`)
}

func TestIsUsageError(t *testing.T) {
	assert.True(t, isUsageError(fmt.Errorf("ask: %w", domain.ErrInvalidSampleCount)))
	assert.True(t, isUsageError(fmt.Errorf("%w: B has zero mass", domain.ErrChainStuck)))
	assert.False(t, isUsageError(context.DeadlineExceeded))
	assert.False(t, isUsageError(errors.New("boom")))
}
