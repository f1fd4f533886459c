// Package creator is the client for the guided skill-definition agent: a
// server-held conversational session that walks the user through the skill
// dimensions and produces skill metadata at the end. It is a thin API
// client; sessions live server-side, so there is no entity store here.
package creator

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/lingnexus/platform-sdk/transport"
)

// Chat response types.
const (
	TypeNextDimension = "next_dimension"
	TypeFollowUp      = "follow_up"
	TypeSummary       = "summary"
	TypeError         = "error"
)

// Progress tracks how far through the skill dimensions a session is.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Option is a suggested answer the agent offers with a follow-up question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SuggestedResources lists the files the agent recommends bundling with
// the skill.
type SuggestedResources struct {
	Scripts    []string `json:"scripts"`
	References []string `json:"references"`
	Assets     []string `json:"assets"`
}

// SkillMetadata is the agent's final skill definition.
type SkillMetadata struct {
	SkillName          string             `json:"skill_name"`
	CoreValue          string             `json:"core_value"`
	UsageScenario      string             `json:"usage_scenario"`
	MainAlias          string             `json:"main_alias"`
	ContextAliases     []string           `json:"context_aliases"`
	Description        string             `json:"description"`
	Category           string             `json:"category"`
	DegreesOfFreedom   string             `json:"degrees_of_freedom"`
	SuggestedResources SuggestedResources `json:"suggested_resources"`
}

// Session is the opening state of a new agent session.
type Session struct {
	SessionID        string   `json:"session_id"`
	Type             string   `json:"type"`
	CurrentDimension string   `json:"current_dimension"`
	DimensionName    string   `json:"dimension_name"`
	Question         string   `json:"question"`
	Guidance         string   `json:"guidance"`
	Placeholder      string   `json:"placeholder"`
	Examples         []string `json:"examples"`
	Progress         Progress `json:"progress"`
}

// ChatResponse is one agent turn. Which fields are set depends on Type.
type ChatResponse struct {
	Type             string         `json:"type"`
	CurrentDimension string         `json:"current_dimension,omitempty"`
	DimensionName    string         `json:"dimension_name,omitempty"`
	Question         string         `json:"question,omitempty"`
	Guidance         string         `json:"guidance,omitempty"`
	FollowUpQuestion string         `json:"follow_up_question,omitempty"`
	Score            *float64       `json:"score,omitempty"`
	Reasoning        string         `json:"reasoning,omitempty"`
	Options          []Option       `json:"recommended_options,omitempty"`
	Examples         []string       `json:"examples,omitempty"`
	Progress         *Progress      `json:"progress,omitempty"`
	SkillMetadata    *SkillMetadata `json:"skill_metadata,omitempty"`
	Message          string         `json:"message,omitempty"`
	NextStep         string         `json:"next_step,omitempty"`
}

// Status is a session's server-side state.
type Status struct {
	SessionID           string    `json:"session_id"`
	CurrentDimensionIdx int       `json:"current_dimension_idx"`
	CurrentDimension    string    `json:"current_dimension"`
	CreatedAt           time.Time `json:"created_at"`
	LastActivity        time.Time `json:"last_activity"`
	IsExpired           bool      `json:"is_expired"`
}

// SaveResult reports the skill persisted from a finished session.
type SaveResult struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
	Message   string `json:"message"`
}

// Client talks to the skill-creator agent endpoints.
type Client struct {
	client *transport.Client
}

// NewClient creates a skill-creator client over the shared transport.
func NewClient(client *transport.Client) *Client {
	return &Client{client: client}
}

// CreateSession opens a new guided definition session. With useAPIKey the
// agent answers with the user's own model credentials.
func (c *Client) CreateSession(ctx context.Context, useAPIKey bool) (Session, error) {
	body := map[string]bool{"use_api_key": useAPIKey}
	return transport.Decode[Session](c.client.Post(ctx, "/skill-creator-agent/session/create", body))
}

// Chat sends one user message into the session.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (ChatResponse, error) {
	body := map[string]string{"session_id": sessionID, "message": message}
	return transport.Decode[ChatResponse](c.client.Post(ctx, "/skill-creator-agent/chat", body))
}

// EndSession closes the session and returns the final summary turn.
func (c *Client) EndSession(ctx context.Context, sessionID string) (ChatResponse, error) {
	q := url.Values{"session_id": {sessionID}}
	return transport.Decode[ChatResponse](c.client.Request(ctx, "POST", "/skill-creator-agent/session/end", q, struct{}{}))
}

// Status fetches the session's server-side state.
func (c *Client) Status(ctx context.Context, sessionID string) (Status, error) {
	return transport.Decode[Status](c.client.Get(ctx, fmt.Sprintf("/skill-creator-agent/session/%s", sessionID), nil))
}

// SaveSkill persists the skill defined by a finished session.
func (c *Client) SaveSkill(ctx context.Context, sessionID string) (SaveResult, error) {
	return transport.Decode[SaveResult](c.client.Post(ctx, fmt.Sprintf("/skill-creator-agent/session/%s/save-skill", sessionID), struct{}{}))
}
