package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/resume-extractor/internal/models"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

const maxWorkers = 4

type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{logger: log.Named("pdf")}
}

func (p *Processor) CanProcess(fileType models.FileType) bool {
	return fileType == models.PDF
}

// Extract returns the plain text of every page joined by newlines, in page
// order. No layout is reconstructed.
func (p *Processor) Extract(ctx context.Context, path string) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs instead of returning errors
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, numPages)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("failed to read page %d: %v", pageNum, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}

			page := reader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}
			content, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}
			pages[pageNum-1] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	p.logger.Debug("Extracted pdf text",
		logger.String("path", path),
		logger.Int("pages", numPages),
	)
	return strings.Join(pages, "\n"), nil
}
