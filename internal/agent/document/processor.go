package document

import (
	"context"

	"github.com/feichai0017/resume-extractor/internal/models"
)

// Processor extracts the raw text of one file format.
type Processor interface {
	// CanProcess reports whether the processor handles the declared type.
	CanProcess(fileType models.FileType) bool

	// Extract reads the file at path and returns its text.
	Extract(ctx context.Context, path string) (string, error)
}
