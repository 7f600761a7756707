package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"solar-estimate/api/envelope"
)

// Correlation propagates or assigns the request correlation id
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(envelope.CorrelationHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(envelope.CorrelationKey, id)
		c.Header(envelope.CorrelationHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request at a level matching its outcome
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var level zapcore.Level
		var outcome string
		switch {
		case status >= 500:
			level, outcome = zapcore.ErrorLevel, "server_error"
		case status >= 400:
			level, outcome = zapcore.WarnLevel, "client_error"
		default:
			level, outcome = zapcore.InfoLevel, "success"
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("outcome", outcome),
			zap.String("correlation_id", envelope.CorrelationID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if ce := logger.Check(level, "request processed"); ce != nil {
			ce.Write(fields...)
		}
	}
}

// Recovery turns a panic in a handler into an enveloped 500
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panicked",
					zap.Any("panic", r),
					zap.String("correlation_id", envelope.CorrelationID(c)))
				envelope.InternalError(c, "internal server error")
			}
		}()
		c.Next()
	}
}
