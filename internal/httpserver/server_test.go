package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linlv/internal/assistant"
	"github.com/MrSnakeDoc/linlv/internal/config"
	"github.com/MrSnakeDoc/linlv/internal/favorites"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/index"
	"github.com/MrSnakeDoc/linlv/internal/logger"
	"github.com/MrSnakeDoc/linlv/internal/sources/catalogfile"
	"github.com/MrSnakeDoc/linlv/internal/store"
)

type stubCompleter struct {
	creds   bool
	reply   string
	release chan struct{}
}

func (s *stubCompleter) HasCredentials() bool { return s.creds }

func (s *stubCompleter) Complete(ctx context.Context, _ assistant.CompletionRequest) (string, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, nil
}

// failingKV accepts reads and rejects writes.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (failingKV) Set(context.Context, string, string) error { return errors.New("disk full") }
func (failingKV) Keys(context.Context) ([]string, error) { return nil, nil }
func (failingKV) Close() error { return nil }

func testDeps(t *testing.T, kv store.KV, c assistant.Completer) deps.Deps {
	t.Helper()
	cat, err := catalogfile.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	log := logger.NewNop()
	tracker := favorites.NewTracker(kv, log)
	tracker.Load(context.Background())

	return deps.Deps{
		Logger:           log,
		StartTime:        time.Now(),
		Version:          "test",
		TimeNow:          time.Now,
		Catalog:          cat,
		CatalogSource:    "embedded",
		Favorites:        tracker,
		Store:            kv,
		StoreBackend:     "memory",
		Sessions:         index.NewSessionIndex(),
		Completer:        c,
		AssistantModel:   assistant.DefaultModel,
		AssistantTimeout: time.Second,
		ChatBurst:        5,
		ChatRefillPerMin: 10,
	}
}

func newTestHandler(d deps.Deps) http.Handler {
	return New(&config.Config{ListenPort: ":0"}, d.Logger, d).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "192.0.2.10:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type resourcesBody struct {
	Category  string `json:"category"`
	Title     string `json:"title"`
	Searching bool   `json:"searching"`
	Count     int    `json:"count"`
	Resources []struct {
		ID       string `json:"id"`
		Favorite bool   `json:"favorite"`
	} `json:"resources"`
}

func resourceIDs(b resourcesBody) []string {
	out := make([]string, 0, len(b.Resources))
	for _, r := range b.Resources {
		out = append(out, r.ID)
	}
	return out
}

func TestCategories(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{}))

	rec := do(t, h, http.MethodGet, "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[struct {
		Default    string `json:"default"`
		Categories []struct {
			ID    string `json:"id"`
			Count int    `json:"count"`
		} `json:"categories"`
	}](t, rec)

	if body.Default != "parks" {
		t.Errorf("default = %q, want parks", body.Default)
	}
	if len(body.Categories) != 4 {
		t.Fatalf("categories = %d, want 4", len(body.Categories))
	}
	total := 0
	for _, c := range body.Categories {
		total += c.Count
	}
	if total != 20 {
		t.Errorf("total records = %d, want 20", total)
	}
}

func TestResources(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{}))

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantIDs   []string
		wantTitle string
	}{
		{name: "default view", target: "/api/resources", wantCode: 200, wantIDs: []string{"p1", "p2", "p3", "p4", "p5"}, wantTitle: "National Parks"},
		{name: "campus search spans categories", target: "/api/resources?category=policy&q=campus", wantCode: 200, wantIDs: []string{"acad1", "acad3", "acad4"}, wantTitle: "Search Results"},
		{name: "about shows no records", target: "/api/resources?category=about&q=park", wantCode: 200, wantIDs: []string{}, wantTitle: "Design Documentation"},
		{name: "unknown category", target: "/api/resources?category=weather", wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			body := decode[resourcesBody](t, rec)
			got := resourceIDs(body)
			if strings.Join(got, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			if body.Count != len(tt.wantIDs) {
				t.Errorf("count = %d, want %d", body.Count, len(tt.wantIDs))
			}
			if tt.wantTitle != "" && body.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", body.Title, tt.wantTitle)
			}
		})
	}
}

func TestAbout(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{}))

	rec := do(t, h, http.MethodGet, "/api/about", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[struct {
		Names []struct {
			Name string `json:"name"`
		} `json:"names"`
		Layout string `json:"layout"`
	}](t, rec)
	if len(body.Names) != 3 || !strings.HasPrefix(body.Names[0].Name, "LinLv Nav") {
		t.Errorf("about names = %+v", body.Names)
	}
	if body.Layout == "" {
		t.Error("about layout is empty")
	}
}

func TestFavoritesToggle(t *testing.T) {
	kv := store.NewMemory()
	h := newTestHandler(testDeps(t, kv, &stubCompleter{}))

	rec := do(t, h, http.MethodPost, "/api/favorites/p2/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	toggled := decode[struct {
		Favorite  bool     `json:"favorite"`
		Persisted bool     `json:"persisted"`
		IDs       []string `json:"ids"`
	}](t, rec)
	if !toggled.Favorite || !toggled.Persisted || len(toggled.IDs) != 1 {
		t.Errorf("toggle response = %+v", toggled)
	}

	raw, ok, err := kv.Get(context.Background(), favorites.StorageKey)
	if err != nil || !ok || raw != `["p2"]` {
		t.Errorf("stored favorites = %q (ok=%v, err=%v)", raw, ok, err)
	}

	body := decode[resourcesBody](t, do(t, h, http.MethodGet, "/api/resources", ""))
	for _, r := range body.Resources {
		if r.Favorite != (r.ID == "p2") {
			t.Errorf("resource %s favorite = %v", r.ID, r.Favorite)
		}
	}

	list := decode[struct {
		IDs []string `json:"ids"`
	}](t, do(t, h, http.MethodGet, "/api/favorites", ""))
	if len(list.IDs) != 1 || list.IDs[0] != "p2" {
		t.Errorf("favorites = %v", list.IDs)
	}

	do(t, h, http.MethodPost, "/api/favorites/p2/toggle", "")
	list = decode[struct {
		IDs []string `json:"ids"`
	}](t, do(t, h, http.MethodGet, "/api/favorites", ""))
	if len(list.IDs) != 0 {
		t.Errorf("favorites after second toggle = %v", list.IDs)
	}
}

func TestFavoritesToggleUnknownID(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{}))

	if rec := do(t, h, http.MethodPost, "/api/favorites/nope/toggle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFavoritesToggleStoreFailure(t *testing.T) {
	h := newTestHandler(testDeps(t, failingKV{}, &stubCompleter{}))

	rec := do(t, h, http.MethodPost, "/api/favorites/car1/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[struct {
		Favorite  bool `json:"favorite"`
		Persisted bool `json:"persisted"`
	}](t, rec)
	if !body.Favorite || body.Persisted {
		t.Errorf("toggle response = %+v, want favorite and not persisted", body)
	}
}

type sessionBody struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Transcript []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"transcript"`
	Reply struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"reply"`
}

func TestAssistantConversation(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{creds: true, reply: "生态旅游是..."}))

	rec := do(t, h, http.MethodPost, "/api/assistant/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	created := decode[sessionBody](t, rec)
	if created.ID == "" || len(created.Transcript) != 1 || created.Transcript[0].Text != assistant.Greeting {
		t.Fatalf("created session = %+v", created)
	}
	base := "/api/assistant/sessions/" + created.ID

	rec = do(t, h, http.MethodPost, base+"/messages", `{"text":"  What is ecotourism?  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("message status = %d (%s)", rec.Code, rec.Body.String())
	}
	msg := decode[sessionBody](t, rec)
	if msg.Reply.Role != "assistant" || msg.Reply.Text != "生态旅游是..." {
		t.Errorf("reply = %+v", msg.Reply)
	}
	if len(msg.Transcript) != 3 || msg.Transcript[1].Text != "What is ecotourism?" {
		t.Errorf("transcript = %+v", msg.Transcript)
	}
	if msg.State != string(assistant.StateIdle) {
		t.Errorf("state = %q, want idle", msg.State)
	}

	if rec := do(t, h, http.MethodPost, base+"/messages", `{"text":"   "}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank message status = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/messages", `{"text":`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", rec.Code)
	}

	got := decode[sessionBody](t, do(t, h, http.MethodGet, base, ""))
	if len(got.Transcript) != 3 {
		t.Errorf("GET transcript len = %d, want 3", len(got.Transcript))
	}

	rec = do(t, h, http.MethodPost, base+"/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if reset := decode[sessionBody](t, rec); len(reset.Transcript) != 1 {
		t.Errorf("reset transcript len = %d, want 1", len(reset.Transcript))
	}
}

func TestAssistantMissingCredentials(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{creds: false}))

	created := decode[sessionBody](t, do(t, h, http.MethodPost, "/api/assistant/sessions", ""))
	rec := do(t, h, http.MethodPost, "/api/assistant/sessions/"+created.ID+"/messages", `{"text":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decode[sessionBody](t, rec); msg.Reply.Text != assistant.MissingCredentialsReply {
		t.Errorf("reply = %q", msg.Reply.Text)
	}
}

func TestAssistantUnknownSession(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{creds: true}))

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/api/assistant/sessions/missing", ""},
		{http.MethodPost, "/api/assistant/sessions/missing/messages", `{"text":"hi"}`},
		{http.MethodPost, "/api/assistant/sessions/missing/reset", ""},
	} {
		if rec := do(t, h, tc.method, tc.target, tc.body); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.target, rec.Code)
		}
	}
}

func TestAssistantRetiredSession(t *testing.T) {
	d := testDeps(t, store.NewMemory(), &stubCompleter{creds: true, reply: "ok"})
	h := newTestHandler(d)

	created := decode[sessionBody](t, do(t, h, http.MethodPost, "/api/assistant/sessions", ""))
	s, ok := d.Sessions.Get(created.ID)
	if !ok {
		t.Fatal("session not indexed")
	}
	if _, retired := s.Retire(time.Now().Add(24*time.Hour), time.Hour); !retired {
		t.Fatal("Retire() should succeed on an idle session")
	}

	base := "/api/assistant/sessions/" + created.ID
	if rec := do(t, h, http.MethodPost, base+"/messages", `{"text":"hi"}`); rec.Code != http.StatusNotFound {
		t.Errorf("message to retired session status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/reset", ""); rec.Code != http.StatusNotFound {
		t.Errorf("reset of retired session status = %d, want 404", rec.Code)
	}
}

func TestAssistantBusy(t *testing.T) {
	c := &stubCompleter{creds: true, reply: "done", release: make(chan struct{})}
	d := testDeps(t, store.NewMemory(), c)
	h := newTestHandler(d)

	created := decode[sessionBody](t, do(t, h, http.MethodPost, "/api/assistant/sessions", ""))
	s, ok := d.Sessions.Get(created.ID)
	if !ok {
		t.Fatal("session not indexed")
	}
	ch, err := s.Submit(context.Background(), "first")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	base := "/api/assistant/sessions/" + created.ID
	if rec := do(t, h, http.MethodPost, base+"/messages", `{"text":"second"}`); rec.Code != http.StatusConflict {
		t.Errorf("message while awaiting status = %d, want 409", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/reset", ""); rec.Code != http.StatusConflict {
		t.Errorf("reset while awaiting status = %d, want 409", rec.Code)
	}
	if body := decode[sessionBody](t, do(t, h, http.MethodGet, base, "")); body.State != string(assistant.StateAwaitingResponse) {
		t.Errorf("state = %q, want awaiting_response", body.State)
	}

	close(c.release)
	<-ch
}

// lockedBuffer collects http.Server error log output across goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAssistantRequestDeadline(t *testing.T) {
	c := &stubCompleter{creds: true, reply: "late", release: make(chan struct{})}
	d := testDeps(t, store.NewMemory(), c)
	d.RequestTimeout = 100 * time.Millisecond

	var errLog lockedBuffer
	srv := httptest.NewUnstartedServer(newTestHandler(d))
	srv.Config.ErrorLog = log.New(&errLog, "", 0)
	srv.Start()

	res, err := http.Post(srv.URL+"/api/assistant/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	var created sessionBody
	_ = json.NewDecoder(res.Body).Decode(&created)
	_ = res.Body.Close()

	res, err = http.Post(srv.URL+"/api/assistant/sessions/"+created.ID+"/messages", "application/json", strings.NewReader(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", res.StatusCode)
	}

	close(c.release)
	srv.Close()

	if strings.Contains(errLog.String(), "superfluous") {
		t.Errorf("response header written twice:\n%s", errLog.String())
	}
}

func TestAssistantRateLimit(t *testing.T) {
	d := testDeps(t, store.NewMemory(), &stubCompleter{creds: true, reply: "ok"})
	d.ChatBurst = 2
	d.ChatRefillPerMin = 1
	h := newTestHandler(d)

	created := decode[sessionBody](t, do(t, h, http.MethodPost, "/api/assistant/sessions", ""))
	target := "/api/assistant/sessions/" + created.ID + "/messages"

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, h, http.MethodPost, target, `{"text":"hi"}`).Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestOpsEndpoints(t *testing.T) {
	d := testDeps(t, store.NewMemory(), &stubCompleter{creds: true})
	h := newTestHandler(d)

	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
	body := decode[struct {
		Mode       string `json:"mode"`
		Components map[string]struct {
			OK   bool `json:"ok"`
			Keys *int `json:"keys"`
		} `json:"components"`
	}](t, rec)
	if body.Mode != "ok" {
		t.Errorf("mode = %q, want ok", body.Mode)
	}
	if st := body.Components["store"]; !st.OK || st.Keys == nil || *st.Keys != 0 {
		t.Errorf("store component = %+v, want ok with 0 keys", st)
	}

	if rec := do(t, h, http.MethodPost, "/api/favorites/p1/toggle", ""); rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/readyz", "")
	var after struct {
		Components map[string]struct {
			Keys *int `json:"keys"`
		} `json:"components"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode readyz: %v", err)
	}
	if k := after.Components["store"].Keys; k == nil || *k != 1 {
		t.Errorf("store keys after toggle = %v, want 1", k)
	}

	d.AllowedCIDRS = []string{"10.0.0.0/8"}
	h = newTestHandler(d)
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusForbidden {
		t.Errorf("healthz outside allowed CIDRs status = %d, want 403", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/categories", ""); rec.Code != http.StatusOK {
		t.Errorf("public API behind CIDR filter status = %d, want 200", rec.Code)
	}
}

func TestReadyzDegradedWithoutKey(t *testing.T) {
	h := newTestHandler(testDeps(t, store.NewMemory(), &stubCompleter{creds: false}))

	rec := do(t, h, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode[struct {
		Mode string `json:"mode"`
	}](t, rec); body.Mode != "degraded" {
		t.Errorf("mode = %q, want degraded", body.Mode)
	}
}
