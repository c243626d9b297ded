// Package apiconnect wires the splitthebill.v1 services to Connect handlers
// and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitthebill/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "splitthebill.v1.SettlementService"

// Procedure paths of the SettlementService RPCs.
const (
	SettlementServiceSettleProcedure           = "/splitthebill.v1.SettlementService/Settle"
	SettlementServicePreviewCashFlowsProcedure = "/splitthebill.v1.SettlementService/PreviewCashFlows"
	SettlementServiceGetSummaryProcedure       = "/splitthebill.v1.SettlementService/GetSummary"
)

// SettlementServiceClient is a client for the splitthebill.v1.SettlementService.
type SettlementServiceClient interface {
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
	PreviewCashFlows(context.Context, *connect.Request[api.PreviewCashFlowsRequest]) (*connect.Response[api.PreviewCashFlowsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService.
// baseURL is the server root, e.g. http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &settlementServiceClient{
		settle: connect.NewClient[api.SettleRequest, api.SettleResponse](
			httpClient, baseURL+SettlementServiceSettleProcedure, opts...,
		),
		previewCashFlows: connect.NewClient[api.PreviewCashFlowsRequest, api.PreviewCashFlowsResponse](
			httpClient, baseURL+SettlementServicePreviewCashFlowsProcedure, opts...,
		),
		getSummary: connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](
			httpClient, baseURL+SettlementServiceGetSummaryProcedure, opts...,
		),
	}
}

type settlementServiceClient struct {
	settle           *connect.Client[api.SettleRequest, api.SettleResponse]
	previewCashFlows *connect.Client[api.PreviewCashFlowsRequest, api.PreviewCashFlowsResponse]
	getSummary       *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *settlementServiceClient) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

func (c *settlementServiceClient) PreviewCashFlows(ctx context.Context, req *connect.Request[api.PreviewCashFlowsRequest]) (*connect.Response[api.PreviewCashFlowsResponse], error) {
	return c.previewCashFlows.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

// SettlementServiceHandler is implemented by the splitthebill.v1.SettlementService server.
type SettlementServiceHandler interface {
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
	PreviewCashFlows(context.Context, *connect.Request[api.PreviewCashFlowsRequest]) (*connect.Response[api.PreviewCashFlowsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	settleHandler := connect.NewUnaryHandler(SettlementServiceSettleProcedure, svc.Settle, opts...)
	previewCashFlowsHandler := connect.NewUnaryHandler(SettlementServicePreviewCashFlowsProcedure, svc.PreviewCashFlows, opts...)
	getSummaryHandler := connect.NewUnaryHandler(SettlementServiceGetSummaryProcedure, svc.GetSummary, opts...)

	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceSettleProcedure:
			settleHandler.ServeHTTP(w, r)
		case SettlementServicePreviewCashFlowsProcedure:
			previewCashFlowsHandler.ServeHTTP(w, r)
		case SettlementServiceGetSummaryProcedure:
			getSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitthebill.v1.SettlementService.Settle is not implemented"))
}

func (UnimplementedSettlementServiceHandler) PreviewCashFlows(context.Context, *connect.Request[api.PreviewCashFlowsRequest]) (*connect.Response[api.PreviewCashFlowsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitthebill.v1.SettlementService.PreviewCashFlows is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitthebill.v1.SettlementService.GetSummary is not implemented"))
}
