package skills

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lingnexus/platform-sdk/transport"
)

// API is the typed client for the skill endpoints.
type API struct {
	client *transport.Client
}

// NewAPI creates a skill API client over the shared transport.
func NewAPI(client *transport.Client) *API {
	return &API{client: client}
}

func (a *API) List(ctx context.Context, params ListParams) ([]Skill, error) {
	q := url.Values{}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*params.IsActive))
	}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return transport.Decode[[]Skill](a.client.Get(ctx, "/skills", q))
}

func (a *API) Get(ctx context.Context, id int64) (Skill, error) {
	return transport.Decode[Skill](a.client.Get(ctx, fmt.Sprintf("/skills/%d", id), nil))
}

func (a *API) Create(ctx context.Context, req CreateRequest) (Skill, error) {
	return transport.Decode[Skill](a.client.Post(ctx, "/skills", req))
}

func (a *API) Update(ctx context.Context, id int64, req UpdateRequest) (Skill, error) {
	return transport.Decode[Skill](a.client.Put(ctx, fmt.Sprintf("/skills/%d", id), req))
}

func (a *API) Delete(ctx context.Context, id int64) error {
	_, err := a.client.Delete(ctx, fmt.Sprintf("/skills/%d", id))
	return err
}

// Sync imports skills from the framework library. With forceUpdate the
// server overwrites skills that already exist.
func (a *API) Sync(ctx context.Context, forceUpdate bool) (SyncResult, error) {
	q := url.Values{"force_update": {strconv.FormatBool(forceUpdate)}}
	return transport.Decode[SyncResult](a.client.Request(ctx, "POST", "/skills/sync", q, nil))
}

func (a *API) SyncStatus(ctx context.Context) (SyncStatus, error) {
	return transport.Decode[SyncStatus](a.client.Get(ctx, "/skills/sync/status", nil))
}
