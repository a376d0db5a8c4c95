package resume

import (
	"context"
	"errors"
	"io"

	"github.com/feichai0017/resume-extractor/internal/models"
)

// ErrUnreadableFile wraps every text extraction failure.
var ErrUnreadableFile = errors.New("the file could not be read")

// Upload is a validated résumé file on its way through the pipeline.
type Upload struct {
	Filename string
	Type     models.FileType
	Content  io.Reader
}

type ResumeService interface {
	// Process runs one upload end to end and returns the stored record.
	// Extraction failures are reported as *llm.ExtractionError.
	Process(ctx context.Context, upload Upload) (*models.ResumeRecord, error)
	List(ctx context.Context) ([]*models.ResumeRecord, error)
	Get(ctx context.Context, id int64) (*models.ResumeRecord, error)
	DeleteLast(ctx context.Context) (*models.ResumeRecord, error)
	Count(ctx context.Context) (int, error)
}
