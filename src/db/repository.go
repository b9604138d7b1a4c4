package db

import (
	"context"
	"dtmoney-server/src/models"
)

// TransactionRepository is the data source behind the HTTP API.
// ListTransactions returns records whose description contains query
// case-insensitively (all records for an empty query), newest first.
type TransactionRepository interface {
	ListTransactions(ctx context.Context, query string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error)
	GetSummary(ctx context.Context) (models.Summary, error)
}
