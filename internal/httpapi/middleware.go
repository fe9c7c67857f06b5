package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/vitalcalc/internal/calc"
	"github.com/Skufu/vitalcalc/internal/labs"
	"github.com/Skufu/vitalcalc/internal/medication"
	"github.com/Skufu/vitalcalc/internal/registry"
)

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// writeError maps an error to its status code and JSON body.
func writeError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload_too_large"})
		return
	}
	if verrs, ok := calc.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "details": verrs})
		return
	}
	switch {
	case errors.Is(err, registry.ErrMalformedInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
	case errors.Is(err, registry.ErrUnknownCalculator),
		errors.Is(err, labs.ErrUnknownTest),
		errors.Is(err, medication.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func invalidPayload(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
}
