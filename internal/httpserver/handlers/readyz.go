package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Records *int   `json:"records,omitempty"`
	Keys    *int   `json:"keys,omitempty"`
	Source  string `json:"source,omitempty"`
	Backend string `json:"backend,omitempty"`
	Live    *int   `json:"live,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports readiness per component. Only an empty catalog makes the
// service unready; a broken store or a missing API key degrade it.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := 0
		if d.Catalog != nil {
			records = d.Catalog.Count()
		}
		sessions := 0
		if d.Sessions != nil {
			sessions = d.Sessions.Count()
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:      records > 0,
				Records: &records,
				Source:  d.CatalogSource,
			},
			"store":     checkStore(r.Context(), d),
			"assistant": checkAssistant(d, &sessions),
		}

		mode := determineMode(components)
		status := http.StatusOK
		if mode == "critical" {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, readyzResponse{
			Ready:      mode != "critical",
			Mode:       mode,
			Components: components,
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Impact: "favorites are not persisted", Error: "no store configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	keys, err := d.Store.Keys(ctx)
	if err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.StoreBackend,
			Impact:  "favorites are not persisted",
			Error:   err.Error(),
		}
	}
	count := len(keys)
	return componentStatus{OK: true, Backend: d.StoreBackend, Keys: &count}
}

func checkAssistant(d deps.Deps, sessions *int) componentStatus {
	if d.Completer == nil || !d.Completer.HasCredentials() {
		return componentStatus{OK: false, Live: sessions, Impact: "assistant replies with the missing api key message"}
	}
	return componentStatus{OK: true, Live: sessions}
}

func determineMode(components map[string]componentStatus) string {
	if c, ok := components["catalog"]; ok && !c.OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}
