package deps

import (
	"time"

	"github.com/MrSnakeDoc/linlv/internal/assistant"
	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/favorites"
	"github.com/MrSnakeDoc/linlv/internal/index"
	"github.com/MrSnakeDoc/linlv/internal/logger"
	"github.com/MrSnakeDoc/linlv/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedCIDRS   []string      // IPs allowed to access healthz/readyz endpoints
	TrustProxy     bool          // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins    []string      // browser origins allowed to call /api, empty = any
	RequestTimeout time.Duration // per-request deadline, must exceed AssistantTimeout

	Catalog       *domain.Catalog    // immutable resource catalog
	CatalogSource string             // "embedded" or the YAML path
	Favorites     *favorites.Tracker // favorites backed by Store
	Store         store.KV           // favorites storage, probed by readyz
	StoreBackend  string             // backend name for readyz

	Sessions         *index.SessionIndex // live assistant sessions
	Completer        assistant.Completer // completion backend
	AssistantModel   string
	AssistantTimeout time.Duration

	ChatBurst        int // token bucket size per IP for chat messages
	ChatRefillPerMin int
}
