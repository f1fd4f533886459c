package marketplace

import (
	"time"

	"github.com/lingnexus/platform-sdk/agents"
	"github.com/lingnexus/platform-sdk/store"
)

// Sharing scopes.
const (
	ScopePrivate = "private"
	ScopeTeam    = "team"
	ScopePublic  = "public"
)

// Skill is a shared skill listing with community metadata layered on top of
// the base skill fields.
type Skill struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Content       string         `json:"content"`
	Meta          map[string]any `json:"meta,omitempty"`
	IsActive      bool           `json:"is_active"`
	Version       string         `json:"version"`
	CreatedBy     int64          `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	SharingScope  string         `json:"sharing_scope"`
	Department    string         `json:"department,omitempty"`
	IsOfficial    bool           `json:"is_official"`
	UsageCount    int            `json:"usage_count"`
	Rating        *float64       `json:"rating"`
	RatingCount   int            `json:"rating_count"`
	Documentation string         `json:"documentation,omitempty"`
	CreatorName   string         `json:"creator_name,omitempty"`
	IsSaved       bool           `json:"is_saved"`
	UserRating    *int           `json:"user_rating,omitempty"`
}

func (s Skill) EntityID() string { return store.IntKey(s.ID) }

// ListParams filters and sorts the marketplace listing.
type ListParams struct {
	Category     string `json:"category,omitempty"`
	SharingScope string `json:"sharing_scope,omitempty"`
	Search       string `json:"search,omitempty"`
	SortBy       string `json:"sort_by,omitempty"`
	Department   string `json:"department,omitempty"`
	IsOfficial   *bool  `json:"is_official,omitempty"`
	Skip         int    `json:"skip,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// TryRequest is an anonymous trial message for a listed skill.
type TryRequest struct {
	Message string `json:"message"`
}

// TryResponse is the outcome of a trial run.
type TryResponse struct {
	Status        string  `json:"status"`
	OutputMessage string  `json:"output_message,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	ExecutionTime float64 `json:"execution_time,omitempty"`
}

// CreateAgentRequest builds a personal agent around a listed skill.
type CreateAgentRequest struct {
	AgentName   string   `json:"agent_name"`
	Description string   `json:"description,omitempty"`
	ModelName   string   `json:"model_name,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// RateRequest submits a 1-5 rating with an optional comment.
type RateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Rating is a stored user rating.
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	SkillID   int64     `json:"skill_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedListParams pages through the saved-skill listing.
type SavedListParams struct {
	Skip  int `json:"skip,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// CreatedAgent aliases the agent record returned by CreateAgentFromSkill.
type CreatedAgent = agents.Agent
