// Package files maintains the user's file tree: uploads, downloads,
// previews, folder management and agent-produced artifacts.
package files

import (
	"context"
	"io"
	"sync"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/store"
	"github.com/lingnexus/platform-sdk/transport"
)

// Store is the file entity store. Files are the primary collection; folders
// and artifacts are secondary lists.
type Store struct {
	*store.Base[File]
	api *API

	mu        sync.RWMutex
	folders   []Folder
	artifacts []Artifact
}

// NewStore creates a file store over the shared transport.
func NewStore(client *transport.Client, handler *errhandle.Handler) *Store {
	return &Store{
		Base: store.New[File]("files", handler),
		api:  NewAPI(client),
	}
}

// Upload sends a file and prepends the stored record.
func (s *Store) Upload(ctx context.Context, filename string, content io.Reader, folderID *int64, description string) (File, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (File, error) {
		f, err := s.api.Upload(ctx, filename, content, folderID, description)
		if err != nil {
			return File{}, err
		}
		s.AddItem(f)
		return f, nil
	})
}

// List fetches files matching params into the store.
func (s *Store) List(ctx context.Context, params ListParams) ([]File, error) {
	key := store.CacheKey(s.Name(), "list", params)
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]File, error) {
		items, err := store.Deduplicate(s.Base, key, func() ([]File, error) {
			return s.api.List(ctx, params)
		})
		if err != nil {
			return nil, err
		}
		s.SetItems(items)
		return items, nil
	})
}

// Download fetches the raw contents of a file.
func (s *Store) Download(ctx context.Context, fileID string) ([]byte, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]byte, error) {
		return s.api.Download(ctx, fileID)
	})
}

// Preview fetches the preview rendition of a file.
func (s *Store) Preview(ctx context.Context, fileID string) ([]byte, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]byte, error) {
		return s.api.Preview(ctx, fileID)
	})
}

// Delete removes the file server-side first, then drops it locally.
func (s *Store) Delete(ctx context.Context, fileID string) error {
	_, err := store.Execute(s.Base, ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.api.Delete(ctx, fileID); err != nil {
			return struct{}{}, err
		}
		s.RemoveItem(fileID)
		return struct{}{}, nil
	})
	return err
}

// Move relocates a file and applies the server's updated record locally.
func (s *Store) Move(ctx context.Context, fileID string, targetFolderID *int64) (File, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (File, error) {
		moved, err := s.api.Move(ctx, fileID, targetFolderID)
		if err != nil {
			return File{}, err
		}
		s.ReplaceItem(fileID, moved)
		return moved, nil
	})
}

// CreateFolder creates a folder and refreshes the loaded folder list entry.
func (s *Store) CreateFolder(ctx context.Context, req CreateFolderRequest) (Folder, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Folder, error) {
		folder, err := s.api.CreateFolder(ctx, req)
		if err != nil {
			return Folder{}, err
		}
		s.mu.Lock()
		s.folders = append([]Folder{folder}, s.folders...)
		s.mu.Unlock()
		return folder, nil
	})
}

// FetchFolders loads the folder list for a parent (nil for the root).
func (s *Store) FetchFolders(ctx context.Context, parentID *int64) ([]Folder, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Folder, error) {
		folders, err := s.api.ListFolders(ctx, parentID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.folders = folders
		s.mu.Unlock()
		return folders, nil
	})
}

// UpdateFolder confirms the change with the server, then applies it locally.
func (s *Store) UpdateFolder(ctx context.Context, id int64, req UpdateFolderRequest) (Folder, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Folder, error) {
		updated, err := s.api.UpdateFolder(ctx, id, req)
		if err != nil {
			return Folder{}, err
		}
		s.mu.Lock()
		for i := range s.folders {
			if s.folders[i].ID == id {
				s.folders[i] = updated
				break
			}
		}
		s.mu.Unlock()
		return updated, nil
	})
}

// DeleteFolder removes the folder server-side first, then drops it locally.
func (s *Store) DeleteFolder(ctx context.Context, id int64) error {
	_, err := store.Execute(s.Base, ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.api.DeleteFolder(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.mu.Lock()
		for i := range s.folders {
			if s.folders[i].ID == id {
				s.folders = append(s.folders[:i:i], s.folders[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		return struct{}{}, nil
	})
	return err
}

// Folders returns a copy of the loaded folder list.
func (s *Store) Folders() []Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// FetchArtifacts loads agent-produced files matching params.
func (s *Store) FetchArtifacts(ctx context.Context, params ArtifactListParams) ([]Artifact, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Artifact, error) {
		artifacts, err := s.api.ListArtifacts(ctx, params)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.artifacts = artifacts
		s.mu.Unlock()
		return artifacts, nil
	})
}

// DownloadArtifact fetches the raw contents of an agent-produced file.
func (s *Store) DownloadArtifact(ctx context.Context, fileID string) ([]byte, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]byte, error) {
		return s.api.DownloadArtifact(ctx, fileID)
	})
}

// Artifacts returns a copy of the loaded artifact list.
func (s *Store) Artifacts() []Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Reset clears files, folders and artifacts.
func (s *Store) Reset() {
	s.Base.Reset()
	s.mu.Lock()
	s.folders = nil
	s.artifacts = nil
	s.mu.Unlock()
}
