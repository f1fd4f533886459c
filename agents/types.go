package agents

import (
	"time"

	"github.com/lingnexus/platform-sdk/store"
)

// Agent is a configured LLM agent with an attached skill set.
type Agent struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	ModelName    string      `json:"model_name"`
	Temperature  float64     `json:"temperature"`
	MaxTokens    int         `json:"max_tokens,omitempty"`
	SystemPrompt string      `json:"system_prompt,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedBy    int64       `json:"created_by"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Skills       []SkillInfo `json:"skills"`
}

func (a Agent) EntityID() string { return store.IntKey(a.ID) }

// SkillInfo is the abbreviated skill reference embedded in an agent.
type SkillInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CreateRequest carries the fields for a new agent.
type CreateRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	ModelName    string   `json:"model_name"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	SkillIDs     []int64  `json:"skill_ids,omitempty"`
}

// UpdateRequest carries a partial agent update.
type UpdateRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ModelName    *string  `json:"model_name,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	SystemPrompt *string  `json:"system_prompt,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
	SkillIDs     []int64  `json:"skill_ids,omitempty"`
}

// ListParams filters the agent list.
type ListParams struct {
	IsActive *bool `json:"is_active,omitempty"`
	Skip     int   `json:"skip,omitempty"`
	Limit    int   `json:"limit,omitempty"`
}

// ExecuteRequest is a single message sent to an agent.
type ExecuteRequest struct {
	Message string `json:"message"`
}

// ExecuteResponse is the outcome of one agent run.
type ExecuteResponse struct {
	ExecutionID   int64   `json:"execution_id"`
	Status        string  `json:"status"`
	OutputMessage string  `json:"output_message,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	TokensUsed    int     `json:"tokens_used,omitempty"`
	ExecutionTime float64 `json:"execution_time,omitempty"`
}

// Execution is one historical agent run.
type Execution struct {
	ID            int64      `json:"id"`
	AgentID       int64      `json:"agent_id"`
	InputMessage  string     `json:"input_message"`
	OutputMessage string     `json:"output_message,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	TokensUsed    int        `json:"tokens_used,omitempty"`
	ExecutionTime float64    `json:"execution_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ExecutionListParams filters an agent's execution history.
type ExecutionListParams struct {
	Skip   int    `json:"skip,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Status string `json:"status,omitempty"`
}
