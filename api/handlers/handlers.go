package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-extractor/internal/service/resume"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

type Handlers struct {
	Resume *ResumeHandler
}

func NewHandlers(resumeService resume.ResumeService, maxUploadSize int64, logger logger.Logger) *Handlers {
	return &Handlers{
		Resume: NewResumeHandler(resumeService, maxUploadSize, logger),
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
