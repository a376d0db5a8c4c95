package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-extractor/api/middleware"
	"github.com/feichai0017/resume-extractor/internal/agent/llm"
	"github.com/feichai0017/resume-extractor/internal/repository"
	"github.com/feichai0017/resume-extractor/internal/service/resume"
	"github.com/feichai0017/resume-extractor/internal/utils/validator"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

// FormField is the multipart field carrying the résumé.
const FormField = "resume"

const (
	msgNoFilePart     = "No file part"
	msgNoSelectedFile = "No selected file"
	msgUnsupported    = "Unsupported file format"
	msgLastDeleted    = "Last entry deleted successfully"
	msgNothingDeleted = "No entries to delete"
)

type ResumeHandler struct {
	service       resume.ResumeService
	maxUploadSize int64
	logger        logger.Logger
}

func NewResumeHandler(service resume.ResumeService, maxUploadSize int64, log logger.Logger) *ResumeHandler {
	return &ResumeHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        log.Named("handler"),
	}
}

func (h *ResumeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Flashes": middleware.Flashes(c)})
}

func (h *ResumeHandler) UploadForm(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", gin.H{"Flashes": middleware.Flashes(c)})
}

// Upload validates the form file, runs the extraction pipeline and
// redirects to the result list. User errors go back to the form as flashes.
func (h *ResumeHandler) Upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		// room for the multipart envelope around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+1<<20)
	}

	header, err := c.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.redirectWithFlash(c, "/upload", validationMessage(validator.ErrFileTooLarge, h.maxUploadSize))
			return
		}
		if errors.Is(err, http.ErrMissingFile) && fieldPresent(c) {
			// a file input submitted without a file arrives as an empty value
			h.redirectWithFlash(c, "/upload", msgNoSelectedFile)
			return
		}
		if !errors.Is(err, http.ErrMissingFile) {
			logger.FromContext(c.Request.Context(), h.logger).Warn("Invalid multipart form", logger.Error(err))
		}
		header = nil
	}

	fileType, err := validator.ValidateUpload(header, h.maxUploadSize)
	if err != nil {
		h.redirectWithFlash(c, "/upload", validationMessage(err, h.maxUploadSize))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	_, err = h.service.Process(c.Request.Context(), resume.Upload{
		Filename: header.Filename,
		Type:     fileType,
		Content:  file,
	})
	if err != nil {
		if msg, ok := processingMessage(err); ok {
			h.redirectWithFlash(c, "/upload", msg)
			return
		}
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/result")
}

func (h *ResumeHandler) Result(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"Flashes": middleware.Flashes(c),
		"Records": records,
		"Count":   len(records),
	})
}

type resultForm struct {
	Action string `form:"action" binding:"required,oneof=add clear"`
}

// ResultAction handles the buttons of the result page.
func (h *ResumeHandler) ResultAction(c *gin.Context) {
	var form resultForm
	if err := c.ShouldBind(&form); err != nil {
		// unknown or missing action: show the list again
		c.Redirect(http.StatusSeeOther, "/result")
		return
	}

	if form.Action == "add" {
		c.Redirect(http.StatusSeeOther, "/upload")
		return
	}

	_, err := h.service.DeleteLast(c.Request.Context())
	switch {
	case errors.Is(err, repository.ErrNothingToDelete):
		h.redirectWithFlash(c, "/result", msgNothingDeleted)
	case err != nil:
		h.fail(c, err)
	default:
		h.redirectWithFlash(c, "/result", msgLastDeleted)
	}
}

func (h *ResumeHandler) ViewData(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "view.html", gin.H{
		"Flashes": middleware.Flashes(c),
		"Records": records,
	})
}

func (h *ResumeHandler) Details(c *gin.Context) {
	rawID := c.Param("id")
	notFound := fmt.Sprintf("Resume data with ID %s not found.", rawID)

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.redirectWithFlash(c, "/result", notFound)
		return
	}

	record, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.redirectWithFlash(c, "/result", notFound)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "details.html", gin.H{
		"Flashes": middleware.Flashes(c),
		"Record":  record,
	})
}

func (h *ResumeHandler) redirectWithFlash(c *gin.Context, location, msg string) {
	middleware.AddFlash(c, msg)
	c.Redirect(http.StatusSeeOther, location)
}

func (h *ResumeHandler) fail(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context(), h.logger).Error("Request failed", logger.Error(err))
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

func fieldPresent(c *gin.Context) bool {
	form := c.Request.MultipartForm
	return form != nil && len(form.Value[FormField]) > 0
}

func validationMessage(err error, maxSize int64) string {
	switch {
	case errors.Is(err, validator.ErrNoFile):
		return msgNoFilePart
	case errors.Is(err, validator.ErrNoFilename):
		return msgNoSelectedFile
	case errors.Is(err, validator.ErrFileTooLarge):
		return fmt.Sprintf("File is too large (limit %d MiB)", maxSize>>20)
	default:
		return msgUnsupported
	}
}

// processingMessage maps pipeline failures the user can act on to a flash
// text. Anything else is a server error.
func processingMessage(err error) (string, bool) {
	var ee *llm.ExtractionError
	if errors.As(err, &ee) {
		return "Could not process résumé: " + ee.Describe(), true
	}
	if errors.Is(err, resume.ErrUnreadableFile) {
		return "Could not process résumé: " + resume.ErrUnreadableFile.Error(), true
	}
	return "", false
}
