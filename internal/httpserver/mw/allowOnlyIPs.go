package mw

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/linlv/internal/logger"
	"github.com/MrSnakeDoc/linlv/internal/utils"
)

// AllowOnlyCIDRS restricts a route group to the given IPs and CIDRs. An empty
// list disables filtering. With trustProxy the client address is read from
// the forwarding headers set by the tunnel or reverse proxy.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	matcher := utils.NewIPMatcher(allowed)
	if matcher.IsEmpty() {
		log.Debug("ip allowlist empty, ops endpoints are public")
		return func(next http.Handler) http.Handler { return next }
	}
	log.Debug("ip allowlist enabled",
		logger.Strings("rules", allowed),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if matcher.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			log.Warn("ip not in allowlist",
				logger.String("ip", ip),
				logger.String("path", r.URL.Path),
				logger.String("request_id", middleware.GetReqID(r.Context())))
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

// writeError answers with the same {"error": msg} body as the API handlers.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
