package skills

import (
	"time"

	"github.com/lingnexus/platform-sdk/store"
)

// Skill categories.
const (
	CategoryExternal = "external"
	CategoryInternal = "internal"
)

// Skill is a reusable capability definition owned by a user or synced from
// the framework library.
type Skill struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Content   string         `json:"content"`
	Meta      map[string]any `json:"meta,omitempty"`
	IsActive  bool           `json:"is_active"`
	Version   string         `json:"version"`
	CreatedBy int64          `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// TempID is set only on optimistic placeholders that the server has not
	// confirmed yet. Never serialized.
	TempID string `json:"-"`
}

// EntityID returns the placeholder token before server confirmation and the
// server key after.
func (s Skill) EntityID() string {
	if s.TempID != "" {
		return s.TempID
	}
	return store.IntKey(s.ID)
}

// CreateRequest carries the fields for a new skill.
type CreateRequest struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Content  string         `json:"content"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// UpdateRequest carries a partial skill update. Nil fields are left
// untouched by the server.
type UpdateRequest struct {
	Content  *string        `json:"content,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

// ListParams filters the skill list.
type ListParams struct {
	Category string `json:"category,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	Skip     int    `json:"skip,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SyncResult reports the outcome of a framework sync run.
type SyncResult struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// SyncStatus describes the framework skill library on the server.
type SyncStatus struct {
	FrameworkPath       string `json:"framework_path"`
	SkillsDirExists     bool   `json:"skills_dir_exists"`
	ExternalSkillsCount int    `json:"external_skills_count"`
	InternalSkillsCount int    `json:"internal_skills_count"`
	TotalSkillsCount    int    `json:"total_skills_count"`
}
