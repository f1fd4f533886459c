package files

import (
	"time"

	"github.com/lingnexus/platform-sdk/store"
)

// File is a user-owned stored file. The string FileID is the stable storage
// key used in download paths; the integer ID is the database row.
type File struct {
	ID             int64      `json:"id"`
	FileID         string     `json:"file_id"`
	UserID         int64      `json:"user_id"`
	FolderID       *int64     `json:"folder_id,omitempty"`
	Filename       string     `json:"filename"`
	FileType       string     `json:"file_type"`
	FileSize       int64      `json:"file_size"`
	MimeType       string     `json:"mime_type"`
	StoragePath    string     `json:"storage_path"`
	Description    string     `json:"description,omitempty"`
	Tags           string     `json:"tags,omitempty"`
	AccessCount    int        `json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DownloadURL    string     `json:"download_url"`
	PreviewURL     string     `json:"preview_url"`
}

func (f File) EntityID() string { return f.FileID }

// Folder is a user folder in the virtual file tree.
type Folder struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Path        string    `json:"path"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	FileCount   int       `json:"file_count"`
	FolderCount int       `json:"folder_count"`
}

func (f Folder) EntityID() string { return store.IntKey(f.ID) }

// Artifact is a file produced by an agent execution.
type Artifact struct {
	ID               int64      `json:"id"`
	FileID           string     `json:"file_id"`
	AgentExecutionID int64      `json:"agent_execution_id"`
	SkillID          *int64     `json:"skill_id,omitempty"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename,omitempty"`
	FileType         string     `json:"file_type"`
	FileSize         int64      `json:"file_size"`
	MimeType         string     `json:"mime_type"`
	Category         string     `json:"category"`
	Description      string     `json:"description,omitempty"`
	StoragePath      string     `json:"storage_path"`
	AccessCount      int        `json:"access_count"`
	LastAccessedAt   *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	DownloadURL      string     `json:"download_url"`
	PreviewURL       string     `json:"preview_url"`
}

// ListParams filters the user file list.
type ListParams struct {
	FolderID *int64 `json:"folder_id,omitempty"`
	Skip     int    `json:"skip,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Search   string `json:"search,omitempty"`
}

// ArtifactListParams filters the artifact list.
type ArtifactListParams struct {
	AgentExecutionID int64  `json:"agent_execution_id,omitempty"`
	SkillID          *int64 `json:"skill_id,omitempty"`
	Skip             int    `json:"skip,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

// CreateFolderRequest carries the fields for a new folder.
type CreateFolderRequest struct {
	Name        string
	Description string
	ParentID    *int64
}

// UpdateFolderRequest carries a partial folder update.
type UpdateFolderRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *int64  `json:"parent_id,omitempty"`
	Order       *int    `json:"order,omitempty"`
}
