package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/linlv/internal/logger"
	"github.com/MrSnakeDoc/linlv/internal/utils"
)

// quietPaths are polled by probes and logged at debug.
var quietPaths = []string{"/healthz", "/readyz"}

// Log writes one access line per request: 5xx at error, 4xx at warn, probes
// at debug, everything else at info. Request bodies are never logged.
func Log(loggerClient logger.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}

			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.String("route", route),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", utils.ClientIP(r, trustProxy)),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			logAt(loggerClient, r.URL.Path, status)("http_request", fields...)
		})
	}
}

func logAt(l logger.Logger, path string, status int) func(string, ...logger.Field) {
	switch {
	case status >= http.StatusInternalServerError:
		return l.Error
	case status >= http.StatusBadRequest:
		return l.Warn
	case isQuiet(path):
		return l.Debug
	default:
		return l.Info
	}
}

func isQuiet(path string) bool {
	for _, p := range quietPaths {
		if strings.EqualFold(path, p) {
			return true
		}
	}
	return false
}
