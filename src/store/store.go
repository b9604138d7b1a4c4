// Package store holds the session-scoped list of transactions and the operation
// that refetches it for a query.
//
// A Store is owned by whoever constructs it and is passed by reference to its
// consumers. Consumers subscribe to individual fields rather than to the whole
// state, so a consumer that only needs the fetch operation is never notified
// when the list changes.
package store

import (
	"context"
	"dtmoney-server/src/models"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrFetch wraps every failure of the data source.
var ErrFetch = errors.New("fetch transactions")

// Source is the external data source. It returns the records whose description
// contains query case-insensitively, or all records for an empty query, newest first.
type Source interface {
	ListTransactions(ctx context.Context, query string) ([]models.Transaction, error)
}

type FetchFunc func(ctx context.Context, query string) error

type Field int

const (
	FieldTransactions Field = iota
	FieldQuery
	FieldFetch
)

func (f Field) String() string {
	switch f {
	case FieldTransactions:
		return "transactions"
	case FieldQuery:
		return "query"
	case FieldFetch:
		return "fetchTransactions"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

type subscription struct {
	id int
	fn func()
}

type Store struct {
	source Source
	fetch  FetchFunc

	// guard drops resolutions of fetches issued before the last applied one.
	guard bool

	mu           sync.RWMutex
	transactions []models.Transaction
	query        string
	issued       uint64
	applied      uint64
	unmounted    bool
	subs         map[Field][]subscription
	nextSubID    int

	mountOnce sync.Once
	mountErr  error
}

type Option func(*Store)

// WithSequenceGuard makes the store ignore fetches that resolve after a newer
// fetch has already been applied. Without it the last fetch to resolve wins.
func WithSequenceGuard() Option {
	return func(s *Store) { s.guard = true }
}

func New(source Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		subs:   make(map[Field][]subscription),
	}
	s.fetch = s.FetchTransactions
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount performs the initial fetch with an empty query. Only the first call
// reaches the source; later calls return its result.
func (s *Store) Mount(ctx context.Context) error {
	s.mountOnce.Do(func() {
		s.mountErr = s.FetchTransactions(ctx, "")
	})
	return s.mountErr
}

// Unmount discards the list, the query and every subscription. Fetches still in
// flight are dropped when they resolve.
func (s *Store) Unmount() {
	s.mu.Lock()
	s.transactions = nil
	s.query = ""
	s.unmounted = true
	s.subs = make(map[Field][]subscription)
	s.mu.Unlock()
}

// Fetcher returns the fetch operation. The returned reference is the same for
// the whole life of the store.
func (s *Store) Fetcher() FetchFunc {
	return s.fetch
}

// FetchTransactions replaces the list with the records matching query. On
// failure the list is left as it was and the error wraps ErrFetch.
func (s *Store) FetchTransactions(ctx context.Context, query string) error {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		log.Debug().Str("query", query).Msg("store unmounted, skipping fetch")
		return nil
	}
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	transactions, err := s.source.ListTransactions(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("fetch transactions failed")
		return fmt.Errorf("%w %q: %w", ErrFetch, query, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		log.Debug().Str("query", query).Msg("store unmounted, dropping fetch result")
		return nil
	}
	if s.guard && seq < s.applied {
		applied := s.applied
		s.mu.Unlock()
		log.Debug().Uint64("seq", seq).Uint64("applied", applied).Str("query", query).Msg("dropping stale fetch result")
		return nil
	}
	s.applied = seq
	s.transactions = transactions
	queryChanged := s.query != query
	s.query = query
	notify := s.subscribersLocked(FieldTransactions)
	if queryChanged {
		notify = append(notify, s.subscribersLocked(FieldQuery)...)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return nil
}

// Refresh refetches with the last applied query.
func (s *Store) Refresh(ctx context.Context) error {
	return s.FetchTransactions(ctx, s.Query())
}

// Transactions returns a copy of the current list. It is never nil.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Query returns the query of the last applied fetch.
func (s *Store) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Store) Summary() models.Summary {
	return models.Summarize(s.Transactions())
}

// Subscribe registers fn to be called after field changes. Callbacks run on the
// goroutine that applied the change, outside the store lock.
func (s *Store) Subscribe(field Field, fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[field] = append(s.subs[field], subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs := s.subs[field]
			for i, sub := range subs {
				if sub.id == id {
					s.subs[field] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) subscribersLocked(field Field) []func() {
	subs := s.subs[field]
	fns := make([]func(), 0, len(subs))
	for _, sub := range subs {
		fns = append(fns, sub.fn)
	}
	return fns
}
