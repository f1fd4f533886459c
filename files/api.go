package files

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/lingnexus/platform-sdk/transport"
)

// API is the typed client for the file endpoints.
type API struct {
	client *transport.Client
}

// NewAPI creates a file API client over the shared transport.
func NewAPI(client *transport.Client) *API {
	return &API{client: client}
}

// Upload sends a file as a multipart form with optional folder placement
// and description.
func (a *API) Upload(ctx context.Context, filename string, content io.Reader, folderID *int64, description string) (File, error) {
	return transport.Decode[File](a.client.Upload(ctx, "/files/upload", func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, content); err != nil {
			return err
		}
		if folderID != nil {
			if err := w.WriteField("folder_id", strconv.FormatInt(*folderID, 10)); err != nil {
				return err
			}
		}
		if description != "" {
			if err := w.WriteField("description", description); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (a *API) List(ctx context.Context, params ListParams) ([]File, error) {
	q := url.Values{}
	if params.FolderID != nil {
		q.Set("folder_id", strconv.FormatInt(*params.FolderID, 10))
	}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	return transport.Decode[[]File](a.client.Get(ctx, "/files", q))
}

// Download returns the raw file contents.
func (a *API) Download(ctx context.Context, fileID string) ([]byte, error) {
	return a.client.Download(ctx, fmt.Sprintf("/files/%s/download", fileID), nil)
}

// Preview returns the raw preview rendition.
func (a *API) Preview(ctx context.Context, fileID string) ([]byte, error) {
	return a.client.Download(ctx, fmt.Sprintf("/files/%s/preview", fileID), nil)
}

func (a *API) Delete(ctx context.Context, fileID string) error {
	_, err := a.client.Delete(ctx, fmt.Sprintf("/files/%s", fileID))
	return err
}

// Move relocates a file; a nil target moves it to the root.
func (a *API) Move(ctx context.Context, fileID string, targetFolderID *int64) (File, error) {
	q := url.Values{}
	if targetFolderID != nil {
		q.Set("target_folder_id", strconv.FormatInt(*targetFolderID, 10))
	}
	return transport.Decode[File](a.client.Request(ctx, "PUT", fmt.Sprintf("/files/%s/move", fileID), q, nil))
}

// CreateFolder creates a folder. The endpoint takes form fields, not JSON.
func (a *API) CreateFolder(ctx context.Context, req CreateFolderRequest) (Folder, error) {
	return transport.Decode[Folder](a.client.Upload(ctx, "/files/folders", func(w *multipart.Writer) error {
		if err := w.WriteField("name", req.Name); err != nil {
			return err
		}
		if req.Description != "" {
			if err := w.WriteField("description", req.Description); err != nil {
				return err
			}
		}
		if req.ParentID != nil {
			if err := w.WriteField("parent_id", strconv.FormatInt(*req.ParentID, 10)); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (a *API) ListFolders(ctx context.Context, parentID *int64) ([]Folder, error) {
	q := url.Values{}
	if parentID != nil {
		q.Set("parent_id", strconv.FormatInt(*parentID, 10))
	}
	return transport.Decode[[]Folder](a.client.Get(ctx, "/files/folders", q))
}

func (a *API) UpdateFolder(ctx context.Context, id int64, req UpdateFolderRequest) (Folder, error) {
	return transport.Decode[Folder](a.client.Put(ctx, fmt.Sprintf("/files/folders/%d", id), req))
}

func (a *API) DeleteFolder(ctx context.Context, id int64) error {
	_, err := a.client.Delete(ctx, fmt.Sprintf("/files/folders/%d", id))
	return err
}

func (a *API) ListArtifacts(ctx context.Context, params ArtifactListParams) ([]Artifact, error) {
	q := url.Values{}
	if params.AgentExecutionID > 0 {
		q.Set("agent_execution_id", strconv.FormatInt(params.AgentExecutionID, 10))
	}
	if params.SkillID != nil {
		q.Set("skill_id", strconv.FormatInt(*params.SkillID, 10))
	}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return transport.Decode[[]Artifact](a.client.Get(ctx, "/files/artifacts", q))
}

// DownloadArtifact returns the raw artifact contents.
func (a *API) DownloadArtifact(ctx context.Context, fileID string) ([]byte, error) {
	return a.client.Download(ctx, fmt.Sprintf("/files/artifacts/%s/download", fileID), nil)
}

// ArtifactDownloadPath returns the server path for direct artifact download
// links.
func ArtifactDownloadPath(fileID string) string {
	return fmt.Sprintf("/files/artifacts/%s/download", fileID)
}

// ArtifactPreviewPath returns the server path for inline artifact previews.
func ArtifactPreviewPath(fileID string) string {
	return fmt.Sprintf("/files/artifacts/%s/preview", fileID)
}
