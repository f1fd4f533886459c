package monitoring

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lingnexus/platform-sdk/transport"
)

// API is the typed client for the monitoring endpoints.
type API struct {
	client *transport.Client
}

// NewAPI creates a monitoring API client over the shared transport.
func NewAPI(client *transport.Client) *API {
	return &API{client: client}
}

func (a *API) ListProjects(ctx context.Context, params ProjectListParams) ([]Project, error) {
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
	return transport.Decode[[]Project](a.client.Get(ctx, "/monitoring/projects", q))
}

func (a *API) GetProject(ctx context.Context, id int64) (Project, error) {
	return transport.Decode[Project](a.client.Get(ctx, fmt.Sprintf("/monitoring/projects/%d", id), nil))
}

func (a *API) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	return transport.Decode[Project](a.client.Post(ctx, "/monitoring/projects", req))
}

func (a *API) UpdateProject(ctx context.Context, id int64, req UpdateProjectRequest) (Project, error) {
	return transport.Decode[Project](a.client.Put(ctx, fmt.Sprintf("/monitoring/projects/%d", id), req))
}

func (a *API) DeleteProject(ctx context.Context, id int64) error {
	_, err := a.client.Delete(ctx, fmt.Sprintf("/monitoring/projects/%d", id))
	return err
}

func (a *API) ListTrials(ctx context.Context, params TrialListParams) ([]Trial, error) {
	q := url.Values{}
	if params.ProjectID > 0 {
		q.Set("project_id", strconv.FormatInt(params.ProjectID, 10))
	}
	if params.Source != "" {
		q.Set("source", params.Source)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	return transport.Decode[[]Trial](a.client.Get(ctx, "/monitoring/trials", q))
}

func (a *API) GetTrial(ctx context.Context, id int64) (Trial, error) {
	return transport.Decode[Trial](a.client.Get(ctx, fmt.Sprintf("/monitoring/trials/%d", id), nil))
}

func (a *API) Statistics(ctx context.Context) (Statistics, error) {
	return transport.Decode[Statistics](a.client.Get(ctx, "/monitoring/statistics", nil))
}
