package resume

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/feichai0017/resume-extractor/internal/agent/llm"
	"github.com/feichai0017/resume-extractor/internal/models"
	"github.com/feichai0017/resume-extractor/internal/repository"
	"github.com/feichai0017/resume-extractor/pkg/converters"
	"github.com/feichai0017/resume-extractor/pkg/logger"
	"github.com/feichai0017/resume-extractor/pkg/storage"
)

type TextExtractor interface {
	Extract(ctx context.Context, path string, fileType models.FileType) (string, error)
}

type FieldExtractor interface {
	ExtractFields(ctx context.Context, resumeText string) (string, error)
}

// UploadStore is the working directory uploads are saved to while they are
// processed.
type UploadStore interface {
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	Get(ctx context.Context, id string) (io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
	Path(id string) (string, error)
}

type Service struct {
	uploads   UploadStore
	extractor TextExtractor
	llm       FieldExtractor
	converter converters.FieldConverter
	repo      repository.ResumeRepository
	archive   storage.Archive
	logger    logger.Logger
}

// NewService wires the pipeline. archive may be nil.
func NewService(
	uploads UploadStore,
	extractor TextExtractor,
	llmClient FieldExtractor,
	converter converters.FieldConverter,
	repo repository.ResumeRepository,
	archive storage.Archive,
	log logger.Logger,
) *Service {
	return &Service{
		uploads:   uploads,
		extractor: extractor,
		llm:       llmClient,
		converter: converter,
		repo:      repo,
		archive:   archive,
		logger:    log.Named("resume"),
	}
}

func (s *Service) Process(ctx context.Context, upload Upload) (*models.ResumeRecord, error) {
	log := logger.FromContext(ctx, s.logger).With(
		logger.String("filename", upload.Filename),
		logger.String("type", string(upload.Type)),
	)
	start := time.Now()

	id, err := s.uploads.Store(ctx, upload.Content, upload.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	defer func() {
		if err := s.uploads.Delete(context.Background(), id); err != nil {
			log.Warn("Failed to remove upload", logger.String("upload_id", id), logger.Error(err))
		}
	}()

	path, err := s.uploads.Path(id)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.Extract(ctx, path, upload.Type)
	if err != nil {
		log.Error("Text extraction failed", logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	log.Debug("Text extracted", logger.Int("chars", len(text)))

	raw, err := s.llm.ExtractFields(ctx, text)
	if err != nil {
		log.Error("Field extraction failed", logger.Error(err))
		return nil, err
	}

	fields, err := s.converter.Convert(raw)
	if err != nil {
		log.Error("Model response rejected", logger.Error(err), logger.Int("response_length", len(raw)))
		return nil, &llm.ExtractionError{Reason: llm.ReasonMalformedJSON, Err: err}
	}

	record := models.NewResumeRecord(fields)
	if _, err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.archiveUpload(ctx, log, id, record.ID)

	log.Info("Resume processed",
		logger.Int64("id", record.ID),
		logger.Duration("elapsed", time.Since(start)),
	)
	return record, nil
}

// archiveUpload copies the original upload to the archive. Failures are
// logged only; the record is already stored.
func (s *Service) archiveUpload(ctx context.Context, log logger.Logger, uploadID string, recordID int64) {
	if s.archive == nil {
		return
	}

	rc, err := s.uploads.Get(ctx, uploadID)
	if err != nil {
		log.Warn("Failed to open upload for archive", logger.Error(err))
		return
	}
	defer rc.Close()

	key := ArchiveKey(recordID)
	if _, err := s.archive.Store(ctx, rc, key); err != nil {
		log.Warn("Failed to archive upload", logger.String("key", key), logger.Error(err))
		return
	}
	log.Info("Upload archived", logger.String("key", key))
}

// ArchiveKey is derived from the record id alone so the copy can be found
// again when the record is deleted. Ids are never reused.
func ArchiveKey(recordID int64) string {
	return fmt.Sprintf("resumes/%d", recordID)
}

func (s *Service) List(ctx context.Context) ([]*models.ResumeRecord, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.ResumeRecord, error) {
	return s.repo.Get(ctx, id)
}

// DeleteLast removes the newest record and its archived upload. A failed
// archive delete is logged; the object then ages out with the archive
// retention.
func (s *Service) DeleteLast(ctx context.Context) (*models.ResumeRecord, error) {
	record, err := s.repo.DeleteLast(ctx)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := ArchiveKey(record.ID)
		if err := s.archive.Delete(ctx, key); err != nil {
			logger.FromContext(ctx, s.logger).Warn("Failed to delete archived upload",
				logger.String("key", key),
				logger.Error(err),
			)
		}
	}
	return record, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
