package agents

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lingnexus/platform-sdk/transport"
)

// API is the typed client for the agent endpoints.
type API struct {
	client *transport.Client
}

// NewAPI creates an agent API client over the shared transport.
func NewAPI(client *transport.Client) *API {
	return &API{client: client}
}

func (a *API) List(ctx context.Context, params ListParams) ([]Agent, error) {
	q := url.Values{}
	if params.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*params.IsActive))
	}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return transport.Decode[[]Agent](a.client.Get(ctx, "/agents", q))
}

func (a *API) Get(ctx context.Context, id int64) (Agent, error) {
	return transport.Decode[Agent](a.client.Get(ctx, fmt.Sprintf("/agents/%d", id), nil))
}

func (a *API) Create(ctx context.Context, req CreateRequest) (Agent, error) {
	return transport.Decode[Agent](a.client.Post(ctx, "/agents", req))
}

func (a *API) Update(ctx context.Context, id int64, req UpdateRequest) (Agent, error) {
	return transport.Decode[Agent](a.client.Put(ctx, fmt.Sprintf("/agents/%d", id), req))
}

func (a *API) Delete(ctx context.Context, id int64) error {
	_, err := a.client.Delete(ctx, fmt.Sprintf("/agents/%d", id))
	return err
}

func (a *API) Execute(ctx context.Context, id int64, req ExecuteRequest) (ExecuteResponse, error) {
	return transport.Decode[ExecuteResponse](a.client.Post(ctx, fmt.Sprintf("/agents/%d/execute", id), req))
}

func (a *API) Executions(ctx context.Context, id int64, params ExecutionListParams) ([]Execution, error) {
	q := url.Values{}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	return transport.Decode[[]Execution](a.client.Get(ctx, fmt.Sprintf("/agents/%d/executions", id), q))
}

func (a *API) Execution(ctx context.Context, agentID, executionID int64) (Execution, error) {
	return transport.Decode[Execution](a.client.Get(ctx, fmt.Sprintf("/agents/%d/executions/%d", agentID, executionID), nil))
}
