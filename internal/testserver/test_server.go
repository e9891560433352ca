// Package testserver runs the full HTTP stack against an in-memory database
// for end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/gigboard/internal/domain/activity"
	"github.com/rpggio/gigboard/internal/domain/dashboard"
	"github.com/rpggio/gigboard/internal/mcp"
	"github.com/rpggio/gigboard/internal/metrics"
	"github.com/rpggio/gigboard/internal/money"
	"github.com/rpggio/gigboard/internal/seed"
	"github.com/rpggio/gigboard/internal/sqlite"
	"github.com/rpggio/gigboard/internal/transport"
	"github.com/stretchr/testify/require"
)

// Options customizes a TestServer.
type Options struct {
	// Seed replaces the embedded default dashboard.
	Seed *dashboard.State
	// Now stamps payments recorded by mark_project_paid.
	Now              func() time.Time
	StrictReferences bool
}

type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Dashboard *dashboard.Service
	Metrics   *metrics.Metrics
}

// RPCResponse is a decoded JSON-RPC response from /rpc.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type RPCError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	var initial dashboard.State
	if opts.Seed != nil {
		initial = *opts.Seed
	} else {
		initial, err = seed.Default()
		require.NoError(t, err)
	}

	m := metrics.New()
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	dashboardSvc := dashboard.NewService(initial, dashboard.ServiceOptions{
		Activities:       activitySvc,
		Recorder:         m,
		Now:              opts.Now,
		StrictReferences: opts.StrictReferences,
	}, nil)
	formatter := money.NewFormatter(money.DefaultCurrency)

	mcpServer := mcp.NewServer(mcp.Config{
		Dashboard: dashboardSvc,
		Activity:  activitySvc,
		Money:     formatter,
	})
	router := transport.NewServer(mcp.NewHandler(dashboardSvc, activitySvc, formatter), transport.Options{
		MCP:        mcp.NewHTTPHandler(mcpServer),
		Metrics:    m.Handler(),
		Instrument: m.Middleware,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:    server,
		DB:        db,
		Dashboard: dashboardSvc,
		Metrics:   m,
	}
}

// Call posts a JSON-RPC request to /rpc.
func (ts *TestServer) Call(t *testing.T, method string, params any) RPCResponse {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(ts.Server.URL+"/rpc", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out RPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// CallResult calls method, requires success, and decodes the result into out.
func (ts *TestServer) CallResult(t *testing.T, method string, params, out any) {
	t.Helper()

	resp := ts.Call(t, method, params)
	require.Nil(t, resp.Error, "%s failed: %+v", method, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Result, out))
}

// Connect opens an MCP client session over the streamable HTTP endpoint.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint: ts.Server.URL + "/mcp",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
