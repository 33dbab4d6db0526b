package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/httpserver"
	"github.com/JospenWolongwo/barber-shop-website/internal/i18n"
	"github.com/JospenWolongwo/barber-shop-website/internal/session"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
	"github.com/JospenWolongwo/barber-shop-website/ui"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// WithVisitors wires a visitor store the test keeps a handle on.
func WithVisitors(store *session.Store) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Visitors = store
	}
}

// WithLoadingWait bounds how long /loading waits for the splash to end.
func WithLoadingWait(d time.Duration) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.LoadingWait = d
	}
}

// WithNow fixes the clock used for the copyright year.
func WithNow(now func() time.Time) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Now = now
	}
}

// NewServer constructs an httptest server running the site HTTP stack with
// the embedded ui tree. Visitors skip the splash unless WithVisitors says otherwise.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	fsys := ui.FS()
	store, err := content.NewStore(fsys, content.DefaultPath)
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	bundle, err := i18n.Load(fsys, "locales", "en", []string{"en", "es"})
	if err != nil {
		t.Fatalf("load locales: %v", err)
	}
	sessions, err := session.NewManager(session.Config{
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("abcdef0123456789abcdef0123456789"),
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	cfg := httpserver.Config{
		Address:  ":0",
		BaseURL:  "https://primecuts.example.com",
		Logger:   zap.NewNop(),
		UI:       fsys,
		Content:  store,
		Bundle:   bundle,
		Sessions: sessions,
		Visitors: session.NewStore(session.StoreConfig{LoadingDelay: 0}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	handler, err := httpserver.NewHandler(cfg)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

// Browser keeps cookies and the CSRF token across requests like a real page would.
type Browser struct {
	t         testing.TB
	server    *httptest.Server
	client    *http.Client
	CSRFToken string
	// Headers are added to every htmx request, e.g. HX-Target.
	Headers http.Header
}

// NewBrowser returns a cookie-keeping client for ts that does not follow redirects.
func NewBrowser(t testing.TB, ts *httptest.Server) *Browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &Browser{
		t:      t,
		server: ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Open loads a full page and remembers the CSRF token it carries.
func (b *Browser) Open(path string) (*http.Response, []byte) {
	b.t.Helper()

	resp, body := b.do(http.MethodGet, path, nil, false)
	if resp.StatusCode == http.StatusOK && strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		if token, ok := ParseHTML(b.t, body).Find(`meta[name="csrf-token"]`).Attr("content"); ok {
			b.CSRFToken = token
		}
	}
	return resp, body
}

// HX sends an htmx request. Unsafe methods carry the CSRF header.
func (b *Browser) HX(method, path string, form url.Values) (*http.Response, []byte) {
	b.t.Helper()
	return b.do(method, path, form, true)
}

// Cookie returns the named cookie for the server origin.
func (b *Browser) Cookie(name string) *http.Cookie {
	u, _ := url.Parse(b.server.URL)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (b *Browser) do(method, path string, form url.Values, htmx bool) (*http.Response, []byte) {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.server.URL+path, body)
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
		for key, values := range b.Headers {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}
	if method != http.MethodGet && b.CSRFToken != "" {
		req.Header.Set("X-CSRF-Token", b.CSRFToken)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

// ManualScheduler holds scheduled tasks until Fire runs them.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc records f; d is ignored.
func (s *ManualScheduler) AfterFunc(_ time.Duration, f func()) site.Task {
	task := &manualTask{fn: f}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return task
}

// Fire runs every pending task that has not been stopped.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, task := range tasks {
		task.mu.Lock()
		run := !task.stopped && !task.fired
		task.fired = true
		task.mu.Unlock()
		if run {
			task.fn()
		}
	}
}
