package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/feichai0017/resume-extractor/pkg/logger"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags every request with an id, stores it in the request
// context for downstream loggers and writes one access log line.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	log = log.Named("http")

	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))

		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		reqLog := logger.FromContext(c.Request.Context(), log)
		if len(c.Errors) > 0 {
			reqLog.Warn(c.Errors.String(), fields...)
			return
		}
		reqLog.Info("Request handled", fields...)
	}
}
