package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lingnexus/platform-sdk/transport"
)

// API is the typed client for the marketplace endpoints.
type API struct {
	client *transport.Client
}

// NewAPI creates a marketplace API client over the shared transport.
func NewAPI(client *transport.Client) *API {
	return &API{client: client}
}

func (a *API) List(ctx context.Context, params ListParams) ([]Skill, error) {
	q := url.Values{}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.SharingScope != "" {
		q.Set("sharing_scope", params.SharingScope)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.SortBy != "" {
		q.Set("sort_by", params.SortBy)
	}
	if params.Department != "" {
		q.Set("department", params.Department)
	}
	if params.IsOfficial != nil {
		q.Set("is_official", strconv.FormatBool(*params.IsOfficial))
	}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return transport.Decode[[]Skill](a.client.Get(ctx, "/marketplace/skills", q))
}

func (a *API) Get(ctx context.Context, id int64) (Skill, error) {
	return transport.Decode[Skill](a.client.Get(ctx, fmt.Sprintf("/marketplace/skills/%d", id), nil))
}

// Try runs a trial message against a listed skill. Works without a session.
func (a *API) Try(ctx context.Context, id int64, req TryRequest) (TryResponse, error) {
	return transport.Decode[TryResponse](a.client.Post(ctx, fmt.Sprintf("/marketplace/skills/%d/try", id), req))
}

func (a *API) CreateAgent(ctx context.Context, id int64, req CreateAgentRequest) (CreatedAgent, error) {
	return transport.Decode[CreatedAgent](a.client.Post(ctx, fmt.Sprintf("/marketplace/skills/%d/create-agent", id), req))
}

func (a *API) Save(ctx context.Context, id int64) error {
	_, err := a.client.Post(ctx, fmt.Sprintf("/marketplace/skills/%d/save", id), nil)
	return err
}

func (a *API) Unsave(ctx context.Context, id int64) error {
	_, err := a.client.Delete(ctx, fmt.Sprintf("/marketplace/skills/%d/save", id))
	return err
}

func (a *API) Rate(ctx context.Context, id int64, req RateRequest) (Rating, error) {
	return transport.Decode[Rating](a.client.Post(ctx, fmt.Sprintf("/marketplace/skills/%d/rate", id), req))
}

func (a *API) Saved(ctx context.Context, params SavedListParams) ([]Skill, error) {
	q := url.Values{}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return transport.Decode[[]Skill](a.client.Get(ctx, "/marketplace/my/saved", q))
}
