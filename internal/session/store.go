package session

import (
	"context"
	"sync"
	"time"

	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

const defaultIdleTTL = 30 * time.Minute

// StoreConfig controls visitor creation and eviction.
type StoreConfig struct {
	IdleTTL      time.Duration
	LoadingDelay time.Duration
	Scheduler    site.Scheduler
	Now          func() time.Time
	// OnEvict is called, outside the store lock, for each visitor removed by Sweep.
	OnEvict func(*site.Visitor)
}

// Store keeps visitor state in memory, keyed by visitor id.
type Store struct {
	mu       sync.Mutex
	visitors map[string]*site.Visitor
	cfg      StoreConfig
	now      func() time.Time
}

// NewStore constructs an empty Store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Store{
		visitors: make(map[string]*site.Visitor),
		cfg:      cfg,
		now:      nowFn,
	}
}

// Get returns the visitor for id and records activity.
func (s *Store) Get(id string) (*site.Visitor, bool) {
	s.mu.Lock()
	v, ok := s.visitors[id]
	s.mu.Unlock()
	if ok {
		v.Touch(s.now())
	}
	return v, ok
}

// GetOrCreate returns the visitor for id, creating fresh state when none exists.
// The boolean reports whether the visitor was created by this call.
func (s *Store) GetOrCreate(id string) (*site.Visitor, bool) {
	s.mu.Lock()
	v, ok := s.visitors[id]
	if !ok {
		v = site.NewVisitor(id, site.VisitorOptions{
			Scheduler:    s.cfg.Scheduler,
			LoadingDelay: s.cfg.LoadingDelay,
			Now:          s.now,
		})
		s.visitors[id] = v
	}
	s.mu.Unlock()
	if ok {
		v.Touch(s.now())
	}
	return v, !ok
}

// End tears the visitor down and forgets it. Unknown ids are ignored.
func (s *Store) End(id string) bool {
	s.mu.Lock()
	v, ok := s.visitors[id]
	delete(s.visitors, id)
	s.mu.Unlock()
	if ok {
		v.Close()
	}
	return ok
}

// Sweep evicts visitors idle for longer than the TTL and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	var evicted []*site.Visitor
	s.mu.Lock()
	for id, v := range s.visitors {
		if now.Sub(v.LastSeen()) > s.cfg.IdleTTL {
			evicted = append(evicted, v)
			delete(s.visitors, id)
		}
	}
	s.mu.Unlock()

	for _, v := range evicted {
		v.Close()
		if s.cfg.OnEvict != nil {
			s.cfg.OnEvict(v)
		}
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is cancelled, then tears down every
// remaining visitor.
func (s *Store) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Len returns the number of live visitors.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

func (s *Store) closeAll() {
	s.mu.Lock()
	all := s.visitors
	s.visitors = make(map[string]*site.Visitor)
	s.mu.Unlock()
	for _, v := range all {
		v.Close()
	}
}
