package repository

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/climatedash/internal/domain/model"
	"github.com/okian/climatedash/pkg/metrics"
)

// Snapshot is an immutable view of one loaded data set.
type Snapshot struct {
	companies []*model.Company
	summaries []Summary
	byName    map[string]int
}

// MemoryStore keeps the data set in memory. Writers are serialized; readers
// load the published snapshot without locking.
type MemoryStore struct {
	mu       sync.Mutex
	fold     bool
	snapshot atomic.Pointer[Snapshot]
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{byName: map[string]int{}})
	return s
}

func (s *MemoryStore) key(name string) string {
	if s.fold {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return name
}

// Replace publishes a new snapshot built from companies. Nil entries are
// dropped.
func (s *MemoryStore) Replace(ctx context.Context, companies []*model.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		companies: make([]*model.Company, 0, len(companies)),
		byName:    make(map[string]int, len(companies)),
	}
	for _, c := range companies {
		if c == nil {
			continue
		}
		i := len(snap.companies)
		snap.companies = append(snap.companies, c)
		snap.summaries = append(snap.summaries, Summary{Index: i, Name: c.Name()})
		if _, dup := snap.byName[s.key(c.Name())]; !dup {
			snap.byName[s.key(c.Name())] = i
		}
	}
	s.snapshot.Store(snap)
	metrics.UpdateCompaniesLoaded(len(snap.companies))
}

// At returns the company at index.
func (s *MemoryStore) At(ctx context.Context, index int) (*model.Company, error) {
	snap := s.snapshot.Load()
	if index < 0 || index >= len(snap.companies) {
		metrics.RecordErrorByComponent("repository", "index_out_of_range")
		return nil, ErrIndexOutOfRange
	}
	return snap.companies[index], nil
}

// ByName returns the first company called name.
func (s *MemoryStore) ByName(ctx context.Context, name string) (int, *model.Company, error) {
	snap := s.snapshot.Load()
	i, ok := snap.byName[s.key(name)]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return -1, nil, ErrNotFound
	}
	return i, snap.companies[i], nil
}

// List returns a copy of the summaries.
func (s *MemoryStore) List(ctx context.Context) []Summary {
	snap := s.snapshot.Load()
	out := make([]Summary, len(snap.summaries))
	copy(out, snap.summaries)
	return out
}

// Count returns the number of companies.
func (s *MemoryStore) Count(ctx context.Context) int {
	return len(s.snapshot.Load().companies)
}
