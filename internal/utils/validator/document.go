package validator

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/feichai0017/resume-extractor/internal/models"
)

var (
	ErrNoFile            = errors.New("no file part")
	ErrNoFilename        = errors.New("no selected file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file is too large")
)

// ValidateUpload checks an uploaded form file before anything is written to
// disk and returns its declared type.
func ValidateUpload(header *multipart.FileHeader, maxSize int64) (models.FileType, error) {
	if header == nil {
		return "", ErrNoFile
	}
	if strings.TrimSpace(header.Filename) == "" {
		return "", ErrNoFilename
	}

	fileType, ok := models.FileTypeOf(header.Filename)
	if !ok {
		return "", ErrUnsupportedFormat
	}

	if maxSize > 0 && header.Size > maxSize {
		return "", fmt.Errorf("%w (limit %d MiB)", ErrFileTooLarge, maxSize>>20)
	}
	return fileType, nil
}
