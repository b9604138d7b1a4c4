package form

import (
	"context"
	"dtmoney-server/src/store"
	"dtmoney-server/src/util"
	"sync"
)

// SearchInput is the raw form input. Any string is a valid query, including the
// empty one; only a missing query is rejected.
type SearchInput struct {
	Query *string `json:"query" validate:"required"`
}

func Query(q string) SearchInput {
	return SearchInput{Query: &q}
}

// SearchForm selects only the fetch operation from the store, so changes to the
// transaction list never re-render it.
type SearchForm struct {
	submitGate

	fetchMu     sync.RWMutex
	fetch       store.FetchFunc
	unsubscribe func()
}

func NewSearchForm(s *store.Store) *SearchForm {
	f := &SearchForm{fetch: s.Fetcher()}
	f.unsubscribe = s.Subscribe(store.FieldFetch, func() {
		f.fetchMu.Lock()
		f.fetch = s.Fetcher()
		f.fetchMu.Unlock()
		f.render()
	})
	f.render()
	return f
}

// Submit validates input and runs the fetch with the query as typed. The submit
// control stays disabled until the fetch settles, whether it fails or not.
func (f *SearchForm) Submit(ctx context.Context, input SearchInput) error {
	if err := util.ValidateStruct(input); err != nil {
		return err
	}
	if !f.begin() {
		return ErrSubmitting
	}
	defer f.end()

	f.fetchMu.RLock()
	fetch := f.fetch
	f.fetchMu.RUnlock()
	return fetch(ctx, *input.Query)
}

func (f *SearchForm) Close() {
	f.unsubscribe()
}
