package monitoring

import (
	"time"

	"github.com/lingnexus/platform-sdk/store"
)

// Project is a clinical-trial watch list defined by keywords, companies and
// indications.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords"`
	Companies   []string  `json:"companies,omitempty"`
	Indications []string  `json:"indications,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	TrialCount  int       `json:"trial_count"`
}

func (p Project) EntityID() string { return store.IntKey(p.ID) }

// CreateProjectRequest carries the fields for a new project.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
	Companies   []string `json:"companies,omitempty"`
	Indications []string `json:"indications,omitempty"`
}

// UpdateProjectRequest carries a partial project update.
type UpdateProjectRequest struct {
	Description *string  `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Companies   []string `json:"companies,omitempty"`
	Indications []string `json:"indications,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// ProjectListParams filters the project list.
type ProjectListParams struct {
	IsActive *bool `json:"is_active,omitempty"`
	Skip     int   `json:"skip,omitempty"`
	Limit    int   `json:"limit,omitempty"`
}

// Trial is one scraped clinical-trial registration.
type Trial struct {
	ID                 int64     `json:"id"`
	ProjectID          int64     `json:"project_id"`
	Source             string    `json:"source"`
	NCTID              string    `json:"nct_id,omitempty"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	Title              string    `json:"title,omitempty"`
	Status             string    `json:"status,omitempty"`
	Phase              string    `json:"phase,omitempty"`
	Company            string    `json:"company,omitempty"`
	Indication         string    `json:"indication,omitempty"`
	StartDate          string    `json:"start_date,omitempty"`
	CompletionDate     string    `json:"completion_date,omitempty"`
	URL                string    `json:"url,omitempty"`
	ScrapedAt          time.Time `json:"scraped_at"`
}

// TrialListParams filters the trial list.
type TrialListParams struct {
	ProjectID int64  `json:"project_id,omitempty"`
	Source    string `json:"source,omitempty"`
	Status    string `json:"status,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Statistics is the aggregate monitoring summary.
type Statistics struct {
	Projects struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"projects"`
	Trials struct {
		Total    int            `json:"total"`
		BySource map[string]int `json:"by_source"`
		ByStatus map[string]int `json:"by_status"`
	} `json:"trials"`
}
