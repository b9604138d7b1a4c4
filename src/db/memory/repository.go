// Package memory holds transactions in process memory. It backs the API when no
// database is configured and doubles as a fake in tests.
package memory

import (
	"context"
	"dtmoney-server/src/models"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	now          func() time.Time
}

type Option func(*Repository)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func NewRepository(seed []models.Transaction, opts ...Option) *Repository {
	r := &Repository{
		transactions: append([]models.Transaction(nil), seed...),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SeedTransactions are the sample rows shown on a fresh install.
func SeedTransactions() []models.Transaction {
	return []models.Transaction{
		{
			ID:          uuid.MustParse("0b1f3c1e-5a8e-4d8e-9f59-1d6a3c2e7a01"),
			Description: "Desenvolvimento de site",
			Type:        models.Income,
			Amount:      decimal.NewFromInt(12000),
			Category:    "Venda",
			CreatedAt:   time.Date(2024, 11, 13, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          uuid.MustParse("0b1f3c1e-5a8e-4d8e-9f59-1d6a3c2e7a02"),
			Description: "Hamburger",
			Type:        models.Outcome,
			Amount:      decimal.NewFromInt(59),
			Category:    "Alimentação",
			CreatedAt:   time.Date(2024, 11, 13, 12, 30, 0, 0, time.UTC),
		},
	}
}

func (r *Repository) ListTransactions(ctx context.Context, query string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)

	r.mu.RLock()
	out := make([]models.Transaction, 0, len(r.transactions))
	for _, t := range r.transactions {
		if needle == "" || strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := models.Transaction{
		ID:          uuid.New(),
		Description: req.Description,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		CreatedAt:   r.now(),
	}
	r.mu.Lock()
	r.transactions = append(r.transactions, t)
	r.mu.Unlock()
	return &t, nil
}

func (r *Repository) GetSummary(ctx context.Context) (models.Summary, error) {
	all, err := r.ListTransactions(ctx, "")
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summarize(all), nil
}
