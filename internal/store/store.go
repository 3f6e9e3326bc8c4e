// Package store holds the in-memory working set of transactions for one
// audit session. Data is seeded at startup and lost on exit - there is no
// persistence layer behind it.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/pswandaru/auditguard/internal/audit"
)

// ErrNotFound is returned when an operation targets an ID the store does
// not hold.
var ErrNotFound = errors.New("transaction not found")

// EventKind describes what changed in the store.
type EventKind string

const (
	// EventSeeded is emitted once after the initial bulk load.
	EventSeeded EventKind = "seeded"
	// EventReplaced is emitted when a record is replaced wholesale.
	EventReplaced EventKind = "replaced"
)

// Event is a store-change notification delivered to watchers.
type Event struct {
	Kind EventKind
	// Transaction is the new version of the affected record. Unset for
	// EventSeeded.
	Transaction audit.Transaction
}

// Store is the in-memory transaction collection. Records keep their
// insertion order. It is safe for concurrent use; the HTTP server reads and
// writes it from multiple goroutines.
type Store struct {
	mu       sync.RWMutex
	order    []string
	byID     map[string]audit.Transaction
	watchers map[int]chan Event
	nextSub  int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byID:     make(map[string]audit.Transaction),
		watchers: make(map[int]chan Event),
	}
}

// Seed bulk-loads the initial working set, replacing any previous contents.
// Records keep the order they are given in.
func (s *Store) Seed(txs []audit.Transaction) {
	s.mu.Lock()
	s.order = make([]string, 0, len(txs))
	s.byID = make(map[string]audit.Transaction, len(txs))
	for _, t := range txs {
		if _, dup := s.byID[t.ID]; dup {
			continue
		}
		s.order = append(s.order, t.ID)
		s.byID[t.ID] = t
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventSeeded})
}

// All returns the current records in insertion order. The slice and its
// elements are copies; mutating them does not affect the store.
func (s *Store) All() []audit.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]audit.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Get looks up a transaction by ID.
func (s *Store) Get(id string) (audit.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	return t, ok
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Replace swaps the record whose ID matches updated.ID with updated,
// keeping its position. It reports whether a record was replaced; an
// unmatched ID leaves the store untouched and returns false.
func (s *Store) Replace(updated audit.Transaction) bool {
	s.mu.Lock()
	if _, ok := s.byID[updated.ID]; !ok {
		s.mu.Unlock()
		return false
	}
	s.byID[updated.ID] = updated
	s.mu.Unlock()

	s.notify(Event{Kind: EventReplaced, Transaction: updated})
	return true
}

// Decide applies an audit decision to the record under the write lock, so
// concurrent conflicting decisions cannot both observe PENDING: the first
// wins and the second gets audit.ErrAlreadyDecided. It returns the
// resulting record and whether the status actually changed; repeating the
// decision a record already has is a no-op. An unknown ID returns
// ErrNotFound.
func (s *Store) Decide(id string, decision audit.Status) (audit.Transaction, bool, error) {
	s.mu.Lock()
	current, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return audit.Transaction{}, false, ErrNotFound
	}

	decided, err := current.Decide(decision)
	if err != nil {
		s.mu.Unlock()
		return current, false, err
	}

	changed := decided.Status != current.Status
	if changed {
		s.byID[id] = decided
	}
	s.mu.Unlock()

	if changed {
		s.notify(Event{Kind: EventReplaced, Transaction: decided})
	}
	return decided, changed, nil
}

// Watch registers a store-change watcher and returns its channel plus a
// cancel function. Events are delivered best-effort: a watcher that falls
// behind its buffer misses events rather than blocking writers.
func (s *Store) Watch(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// CategoryBreakdown aggregates the records of one category.
type CategoryBreakdown struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Amount   int64  `json:"amount_idr"`
}

// Summary is the set of derived dashboard views. It is recomputed from the
// current records on every call, never maintained incrementally.
type Summary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`

	// HighRisk counts records whose latest assessment came back HIGH.
	HighRisk int `json:"high_risk"`

	// TotalAmount is the sum of all record amounts in whole IDR.
	TotalAmount int64 `json:"total_amount_idr"`

	// Categories is sorted by category name for stable output.
	Categories []CategoryBreakdown `json:"categories"`
}

// Summarize computes the derived views over the current records.
func (s *Store) Summarize() Summary {
	txs := s.All()

	sum := Summary{}
	perCategory := make(map[string]*CategoryBreakdown)

	for _, t := range txs {
		switch t.Status {
		case audit.StatusPending:
			sum.Pending++
		case audit.StatusApproved:
			sum.Approved++
		case audit.StatusRejected:
			sum.Rejected++
		}
		if t.Assessment != nil && t.Assessment.Level == audit.RiskHigh {
			sum.HighRisk++
		}
		sum.TotalAmount += t.Amount

		bd, ok := perCategory[t.Category]
		if !ok {
			bd = &CategoryBreakdown{Category: t.Category}
			perCategory[t.Category] = bd
		}
		bd.Count++
		bd.Amount += t.Amount
	}

	sum.Categories = make([]CategoryBreakdown, 0, len(perCategory))
	for _, bd := range perCategory {
		sum.Categories = append(sum.Categories, *bd)
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].Category < sum.Categories[j].Category
	})

	return sum
}
