package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/pkg/logger"
	"github.com/feichai0017/resume-extractor/pkg/storage/minio"
	"github.com/feichai0017/resume-extractor/pkg/storage/s3"
)

// Archive is an object store that keeps a copy of every processed upload
// until its record is deleted or it outlives the archive retention.
type Archive interface {
	// Store writes reader under key and returns the key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes everything last modified before threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewArchive returns the configured archive, or nil when archiving is off.
func NewArchive(ctx context.Context, cfg config.ArchiveConfig, log logger.Logger) (Archive, error) {
	switch cfg.Type {
	case "", config.ArchiveNone:
		return nil, nil
	case config.ArchiveS3:
		st, err := s3.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.ArchiveMinio:
		st, err := minio.NewMinioStorage(ctx, cfg.Minio, log)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
