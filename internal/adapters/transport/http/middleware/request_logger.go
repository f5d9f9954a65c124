package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const RequestIDHeader = "X-Request-ID"

// quiet routes are probes; they log at debug only.
var quiet = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		l := log.With(
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		l.Debug("incoming request",
			zap.String("origin", c.GetHeader("Origin")),
			zap.Any("hdr", scrubHeaders(c.Request.Header)),
		)

		ts := time.Now()
		c.Next()

		status := c.Writer.Status()
		for _, e := range c.Errors {
			l.Error("handler error", zap.Int("status", status), zap.Error(e.Err))
		}

		level := zapcore.InfoLevel
		switch {
		case quiet[c.FullPath()]:
			level = zapcore.DebugLevel
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		if ce := l.Check(level, "completed"); ce != nil {
			ce.Write(
				zap.Int("status", status),
				zap.Duration("latency", time.Since(ts)),
				zap.String("ip", c.ClientIP()),
				zap.Int("size", c.Writer.Size()),
			)
		}
	}
}

// scrubHeaders hides bearer tokens and session cookies.
func scrubHeaders(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "authorization") || strings.Contains(lk, "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}
