package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitthebill/internal/metrics"
	"github.com/mmynk/splitthebill/pkg/api"
	"github.com/mmynk/splitthebill/pkg/api/apiconnect"
)

// echoIDHandler answers Settle with the request ID it saw in the context.
type echoIDHandler struct {
	apiconnect.UnimplementedSettlementServiceHandler
}

func (echoIDHandler) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return connect.NewResponse(&api.SettleResponse{EventID: GetRequestID(ctx)}), nil
}

func setupServer(t *testing.T, logs *bytes.Buffer) (apiconnect.SettlementServiceClient, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := metrics.New()
	path, handler := apiconnect.NewSettlementServiceHandler(echoIDHandler{},
		connect.WithInterceptors(RequestID(), LoggingInterceptor(logger), MetricsInterceptor(m)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	// Access logs are written after the response is sent, so keep them out of logs.
	server := httptest.NewServer(AccessLog(slog.New(slog.NewTextHandler(io.Discard, nil)), CORS(mux)))
	t.Cleanup(server.Close)

	return apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL), m
}

func TestRequestID(t *testing.T) {
	var logs bytes.Buffer
	client, _ := setupServer(t, &logs)

	resp, err := client.Settle(context.Background(), connect.NewRequest(&api.SettleRequest{}))
	require.NoError(t, err)
	generated := resp.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, resp.Msg.EventID)

	req := connect.NewRequest(&api.SettleRequest{})
	req.Header().Set(RequestIDHeader, "abc-123")
	resp, err = client.Settle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", resp.Msg.EventID)

	out := logs.String()
	assert.Contains(t, out, `"msg":"RPC ok"`)
	assert.Contains(t, out, `"code":"ok"`)
	assert.Contains(t, out, `"request_id":"abc-123"`)
}

func TestInterceptorsOnError(t *testing.T) {
	var logs bytes.Buffer
	client, m := setupServer(t, &logs)

	req := connect.NewRequest(&api.GetSummaryRequest{Ledger: api.Ledger{EventID: "trip-9"}})
	req.Header().Set(RequestIDHeader, "fail-1")
	_, err := client.GetSummary(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))

	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, "fail-1", connectErr.Meta().Get(RequestIDHeader))

	count := testutil.ToFloat64(m.RPCRequests.WithLabelValues(apiconnect.SettlementServiceGetSummaryProcedure, "unimplemented"))
	assert.Equal(t, float64(1), count)

	out := logs.String()
	assert.Contains(t, out, `"msg":"RPC error"`)
	assert.Contains(t, out, `"request_id":"fail-1"`)
	assert.Contains(t, out, `"event_id":"trip-9"`)
	assert.Contains(t, out, `"code":"unimplemented"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/splitthebill.v1.SettlementService/Settle", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
}
