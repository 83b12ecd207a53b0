package attendance

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

// View is one session's loaded matrix: the range it covers, the unfiltered
// employee list and the record index. Every load takes a new generation;
// only the newest load may commit.
type View struct {
	mu         sync.Mutex
	generation uint64
	loaded     bool
	rng        calendar.Range
	employees  []employee.Employee
	index      *attendance.Index
	touched    time.Time
}

// Begin starts a load and returns its generation.
func (v *View) Begin(now time.Time) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	v.touched = now
	return v.generation
}

// Commit stores a finished load unless a newer one has started since.
func (v *View) Commit(gen uint64, rng calendar.Range, employees []employee.Employee, idx *attendance.Index) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return false
	}
	v.loaded = true
	v.rng = rng
	v.employees = employees
	v.index = idx
	return true
}

// Cached returns a copy of the loaded data when it covers exactly rng.
func (v *View) Cached(rng calendar.Range, now time.Time) ([]employee.Employee, *attendance.Index, uint64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded || v.rng != rng {
		return nil, nil, 0, false
	}
	v.touched = now
	return v.employees, v.index.Clone(), v.generation, true
}

// Update runs fn against the loaded index. It reports false when nothing
// is loaded yet.
func (v *View) Update(fn func(rng calendar.Range, idx *attendance.Index)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		return false
	}
	fn(v.rng, v.index)
	return true
}

func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

func (v *View) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.touched
}

// ViewStore holds one View per session key.
type ViewStore struct {
	mu    sync.Mutex
	views map[string]*View
	idle  time.Duration
	now   func() time.Time
}

func NewViewStore(idle time.Duration) *ViewStore {
	return &ViewStore{
		views: make(map[string]*View),
		idle:  idle,
		now:   time.Now,
	}
}

// Get returns the session's view, creating an empty one on first use.
func (s *ViewStore) Get(key string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[key]
	if !ok {
		v = &View{touched: s.now()}
		s.views[key] = v
	}
	return v
}

// Peek returns the session's view without creating one.
func (s *ViewStore) Peek(key string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[key]
	return v, ok
}

func (s *ViewStore) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, key)
}

// EvictIdle drops views untouched for longer than the idle timeout.
func (s *ViewStore) EvictIdle() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for key, v := range s.views {
		if v.idleSince().Before(cutoff) {
			delete(s.views, key)
			evicted++
		}
	}
	return evicted
}

func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}
