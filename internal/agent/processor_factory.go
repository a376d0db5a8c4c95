package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/feichai0017/resume-extractor/internal/agent/document"
	"github.com/feichai0017/resume-extractor/internal/agent/document/docx"
	"github.com/feichai0017/resume-extractor/internal/agent/document/pdf"
	"github.com/feichai0017/resume-extractor/internal/agent/document/text"
	"github.com/feichai0017/resume-extractor/internal/models"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ProcessorFactory is the text extractor: it dispatches a file to the
// processor registered for its declared type.
type ProcessorFactory struct {
	processors map[models.FileType]document.Processor
	logger     logger.Logger
}

func NewProcessorFactory(log logger.Logger) *ProcessorFactory {
	log = log.Named("extractor")
	f := &ProcessorFactory{
		processors: make(map[models.FileType]document.Processor),
		logger:     log,
	}
	f.Register(models.PDF, pdf.NewProcessor(log))
	f.Register(models.DOCX, docx.NewProcessor(log))
	f.Register(models.TXT, text.NewProcessor(log))
	return f
}

func (f *ProcessorFactory) Register(fileType models.FileType, p document.Processor) {
	f.processors[fileType] = p
}

func (f *ProcessorFactory) GetProcessor(fileType models.FileType) (document.Processor, error) {
	p, ok := f.processors[fileType]
	if !ok || !p.CanProcess(fileType) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileType)
	}
	return p, nil
}

// Extract returns the raw text of the file at path. No retries.
func (f *ProcessorFactory) Extract(ctx context.Context, path string, fileType models.FileType) (string, error) {
	p, err := f.GetProcessor(fileType)
	if err != nil {
		f.logger.Warn("No processor for file type", logger.String("fileType", string(fileType)))
		return "", err
	}
	out, err := p.Extract(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", fileType, err)
	}
	return out, nil
}
