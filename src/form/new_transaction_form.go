package form

import (
	"context"
	"dtmoney-server/src/models"
	"dtmoney-server/src/store"
	"dtmoney-server/src/util"
	"fmt"
)

type Creator interface {
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error)
}

// NewTransactionForm creates a transaction and then refetches the store with its
// current query, so the list stays the result of a single fetch.
type NewTransactionForm struct {
	submitGate

	creator Creator
	store   *store.Store
}

func NewNewTransactionForm(creator Creator, s *store.Store) *NewTransactionForm {
	f := &NewTransactionForm{creator: creator, store: s}
	f.render()
	return f
}

func (f *NewTransactionForm) Submit(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !f.begin() {
		return nil, ErrSubmitting
	}
	defer f.end()

	created, err := f.creator.CreateTransaction(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if err := f.store.Refresh(ctx); err != nil {
		return created, fmt.Errorf("transaction %s created but refresh failed: %w", created.ID, err)
	}
	return created, nil
}
