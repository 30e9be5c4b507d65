// Package logging builds the process slog.Logger and adapts it to gin and
// gorm so every layer writes to the same structured stream.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"
)

// Common log attribute keys.
const (
	KeyUserID  = "user_id"
	KeyMethod  = "method"
	KeyRoute   = "route"
	KeyStatus  = "status"
	KeyLatency = "latency"
	KeyError   = "error"
)

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing text or json records to w.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Err returns an error attribute, or an empty attribute for a nil error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Gin logs one record per request once the handler chain has finished.
func Gin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		attrs := []any{
			slog.String(KeyMethod, c.Request.Method),
			slog.String(KeyRoute, route),
			slog.Int(KeyStatus, status),
			slog.Duration(KeyLatency, time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if uid := c.GetString(KeyUserID); uid != "" {
			attrs = append(attrs, slog.String(KeyUserID, uid))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String(KeyError, c.Errors.String()))
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request", attrs...)
	}
}

// Gorm adapts logger to gorm's logger interface. Queries slower than a
// second are reported as warnings and record-not-found is not an error.
func Gorm(logger *slog.Logger, level string) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	switch ParseLevel(level) {
	case slog.LevelDebug:
		gormLevel = gormlogger.Info
	case slog.LevelError:
		gormLevel = gormlogger.Error
	}
	return gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
