package db

import (
	"context"
	"dtmoney-server/src/models"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t      models.Transaction
		id     string
		kind   string
		amount string
	)
	if err := row.Scan(&id, &t.Description, &kind, &amount, &t.Category, &t.CreatedAt); err != nil {
		return t, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return t, fmt.Errorf("invalid transaction id %q: %w", id, err)
	}
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return t, fmt.Errorf("invalid amount %q for transaction %s: %w", amount, id, err)
	}
	t.ID = parsedID
	t.Type = models.TransactionType(kind)
	t.Amount = parsedAmount
	return t, nil
}

// escapeLike makes query match literally inside an ILIKE pattern.
func escapeLike(query string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
}

func ListTransactions(ctx context.Context, pool *pgxpool.Pool, query string) ([]models.Transaction, error) {
	sql := `
		SELECT id::text, description, type, amount::text, category, created_at
		FROM transactions
		WHERE $1::text = '' OR description ILIKE '%' || $2::text || '%'
		ORDER BY created_at DESC, id
	`
	rows, err := pool.Query(ctx, sql, query, escapeLike(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, req models.CreateTransactionRequest) (*models.Transaction, error) {
	sql := `
		INSERT INTO transactions (id, description, type, amount, category)
		VALUES ($1::uuid, $2, $3, $4::numeric, $5)
		RETURNING id::text, description, type, amount::text, category, created_at
	`
	t, err := scanTransaction(pool.QueryRow(ctx, sql,
		uuid.New().String(), req.Description, string(req.Type), req.Amount.String(), req.Category))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func GetSummary(ctx context.Context, pool *pgxpool.Pool) (models.Summary, error) {
	sql := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE type = 'outcome'), 0)::text
		FROM transactions
	`
	var income, outcome string
	if err := pool.QueryRow(ctx, sql).Scan(&income, &outcome); err != nil {
		return models.Summary{}, err
	}
	var s models.Summary
	var err error
	if s.Income, err = decimal.NewFromString(income); err != nil {
		return models.Summary{}, fmt.Errorf("invalid income sum %q: %w", income, err)
	}
	if s.Outcome, err = decimal.NewFromString(outcome); err != nil {
		return models.Summary{}, fmt.Errorf("invalid outcome sum %q: %w", outcome, err)
	}
	s.Total = s.Income.Sub(s.Outcome)
	return s, nil
}

// Repository adapts the query functions above to db.TransactionRepository.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListTransactions(ctx context.Context, query string) ([]models.Transaction, error) {
	return ListTransactions(ctx, r.pool, query)
}

func (r *Repository) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	return CreateTransaction(ctx, r.pool, req)
}

func (r *Repository) GetSummary(ctx context.Context) (models.Summary, error) {
	return GetSummary(ctx, r.pool)
}
