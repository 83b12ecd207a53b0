package file

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/storage"
	"github.com/google/uuid"
)

// exportsDir is the storage prefix every export batch lives under.
const exportsDir = "exports"

type FileService interface {
	// SaveExport stores rendered export files and returns where to fetch them.
	SaveExport(ctx context.Context, files []export.File) ([]export.Artifact, error)

	// PurgeExports removes export batches older than maxAge.
	PurgeExports(ctx context.Context, maxAge time.Duration) (int, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	batched bool
	now     func() time.Time
}

// NewFileService stores each export in its own exports/{uuid}/ directory so
// concurrent exports with the same file names never collide.
func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{storage: storage, batched: true, now: time.Now}
}

// NewDirectoryFileService writes files straight into the storage root. Used
// by the CLI, where the root is the output directory.
func NewDirectoryFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{storage: storage, now: time.Now}
}

func (s *fileServiceImpl) SaveExport(ctx context.Context, files []export.File) ([]export.Artifact, error) {
	for _, f := range files {
		if f.Name == "" || f.Name == "." || f.Name == ".." || path.Base(f.Name) != f.Name {
			return nil, fmt.Errorf("%w: export file name %q", storage.ErrInvalidPath, f.Name)
		}
	}

	dir := ""
	if s.batched {
		dir = path.Join(exportsDir, uuid.New().String())
	}

	artifacts := make([]export.Artifact, 0, len(files))
	stored := make([]string, 0, len(files))
	for _, f := range files {
		p := f.Name
		if dir != "" {
			p = path.Join(dir, f.Name)
		}

		uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(f.Data), p, f.ContentType)
		if err != nil {
			s.discard(ctx, stored)
			return nil, fmt.Errorf("failed to store %s: %w", f.Name, err)
		}
		stored = append(stored, uploadedPath)

		url, err := s.storage.GetURL(ctx, uploadedPath)
		if err != nil {
			s.discard(ctx, stored)
			return nil, fmt.Errorf("failed to resolve url of %s: %w", f.Name, err)
		}

		artifacts = append(artifacts, export.Artifact{
			Name:        f.Name,
			URL:         url,
			Size:        len(f.Data),
			ContentType: f.ContentType,
		})
	}
	return artifacts, nil
}

// discard removes the files of a batch that failed partway.
func (s *fileServiceImpl) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.storage.Delete(context.WithoutCancel(ctx), p); err != nil {
			slog.Warn("Failed to remove partial export file", "path", p, "error", err)
		}
	}
}

func (s *fileServiceImpl) PurgeExports(ctx context.Context, maxAge time.Duration) (int, error) {
	if !s.batched {
		return 0, nil
	}
	return s.storage.Purge(ctx, exportsDir, s.now().Add(-maxAge))
}
