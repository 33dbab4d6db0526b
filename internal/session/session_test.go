package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

type fixedClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T) (*Manager, *fixedClock) {
	t.Helper()

	clock := &fixedClock{current: time.Now().UTC()}
	mgr, err := NewManager(Config{
		CookieName: "test_visitor",
		HashKey:    []byte("12345678901234567890123456789012"),
		BlockKey:   []byte("abcdefghijklmnopqrstuv0123456789"),
		Lifetime:   2 * time.Hour,
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return mgr, clock
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestManagerRoundTrip(t *testing.T) {
	t.Parallel()

	mgr, _ := newTestManager(t)

	visit, err := mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.True(t, visit.Fresh)
	require.Len(t, visit.ID, 26)

	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, visit))
	cookie := findCookie(rec.Result().Cookies(), "test_visitor")
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	again, err := mgr.Load(req)
	require.NoError(t, err)
	require.False(t, again.Fresh)
	require.Equal(t, visit.ID, again.ID)
}

func TestManagerSameSite(t *testing.T) {
	t.Parallel()

	mgr, _ := newTestManager(t)
	visit, err := mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, visit))
	require.Contains(t, rec.Header().Get("Set-Cookie"), "SameSite=Lax")

	rec = httptest.NewRecorder()
	mgr.Destroy(rec)
	require.Contains(t, rec.Header().Get("Set-Cookie"), "SameSite=Lax")

	strict, err := NewManager(Config{
		HashKey:        []byte("12345678901234567890123456789012"),
		CookieSameSite: http.SameSiteStrictMode,
	})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	require.NoError(t, strict.Save(rec, visit))
	require.Contains(t, rec.Header().Get("Set-Cookie"), "SameSite=Strict")
}

func TestManagerTamperedCookieIssuesFreshVisit(t *testing.T) {
	t.Parallel()

	mgr, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_visitor", Value: "forged"})

	visit, err := mgr.Load(req)
	require.NoError(t, err)
	require.True(t, visit.Fresh)
}

func TestManagerExpiredCookie(t *testing.T) {
	t.Parallel()

	mgr, clock := newTestManager(t)
	visit, err := mgr.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, visit))
	cookie := findCookie(rec.Result().Cookies(), "test_visitor")

	clock.Advance(3 * time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	next, err := mgr.Load(req)
	require.ErrorIs(t, err, ErrExpired)
	require.True(t, next.Fresh)
	require.NotEqual(t, visit.ID, next.ID)
}

func TestManagerDestroyClearsCookie(t *testing.T) {
	t.Parallel()

	mgr, _ := newTestManager(t)
	rec := httptest.NewRecorder()
	mgr.Destroy(rec)
	cookie := findCookie(rec.Result().Cookies(), "test_visitor")
	require.NotNil(t, cookie)
	require.Equal(t, -1, cookie.MaxAge)
	require.Empty(t, cookie.Value)
}

func TestNewManagerValidatesKeys(t *testing.T) {
	t.Parallel()

	_, err := NewManager(Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewManager(Config{HashKey: []byte("k"), BlockKey: []byte("short")})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

// idleScheduler never fires.
type idleScheduler struct{}

type idleTask struct{ stopped bool }

func (t *idleTask) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

func (idleScheduler) AfterFunc(time.Duration, func()) site.Task { return &idleTask{} }

func TestStoreGetOrCreate(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{current: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	store := NewStore(StoreConfig{Scheduler: idleScheduler{}, LoadingDelay: time.Second, Now: clock.Now})

	v, created := store.GetOrCreate("a")
	require.True(t, created)
	require.True(t, v.Loading())

	same, created := store.GetOrCreate("a")
	require.False(t, created)
	require.Same(t, v, same)
	require.Equal(t, 1, store.Len())

	_, ok := store.Get("missing")
	require.False(t, ok)
}

func TestStoreEndTearsDown(t *testing.T) {
	t.Parallel()

	store := NewStore(StoreConfig{Scheduler: idleScheduler{}, LoadingDelay: time.Second})
	v, _ := store.GetOrCreate("a")

	require.True(t, store.End("a"))
	require.True(t, v.Closed())
	require.Zero(t, store.Len())
	require.False(t, store.End("a"))
}

func TestStoreSweepEvictsIdleVisitors(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{current: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	var evicted []string
	store := NewStore(StoreConfig{
		IdleTTL:   10 * time.Minute,
		Scheduler: idleScheduler{},
		Now:       clock.Now,
		OnEvict:   func(v *site.Visitor) { evicted = append(evicted, v.ID()) },
	})

	stale, _ := store.GetOrCreate("stale")
	clock.Advance(8 * time.Minute)
	store.GetOrCreate("active")
	clock.Advance(4 * time.Minute)

	require.Equal(t, 1, store.Sweep(clock.Now()))
	require.Equal(t, []string{"stale"}, evicted)
	require.True(t, stale.Closed())
	_, ok := store.Get("active")
	require.True(t, ok)
}

func TestStoreRunClosesVisitorsOnShutdown(t *testing.T) {
	t.Parallel()

	store := NewStore(StoreConfig{Scheduler: idleScheduler{}, LoadingDelay: time.Second})
	v, _ := store.GetOrCreate("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.True(t, v.Closed())
	require.Zero(t, store.Len())
}
