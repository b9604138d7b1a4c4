package handlers

import (
	"dtmoney-server/src/db"
	"dtmoney-server/src/models"
	"dtmoney-server/src/util"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// ListTransactions answers GET /api/transactions?q=, newest first.
func ListTransactions(repo db.TransactionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		transactions, err := repo.ListTransactions(r.Context(), query)
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("failed to list transactions")
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}
		writeJSON(w, http.StatusOK, transactions)
	}
}

func CreateTransaction(repo db.TransactionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Msg("failed to decode create transaction request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := util.ValidateStruct(req); err != nil {
			var verr *util.ValidationError
			if errors.As(err, &verr) {
				log.Warn().Interface("fields", verr.Fields).Msg("create transaction validation failed")
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{
					"error":  "invalid transaction",
					"fields": verr.Fields,
				})
				return
			}
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		created, err := repo.CreateTransaction(r.Context(), req)
		if err != nil {
			log.Error().Err(err).Str("description", req.Description).Msg("failed to create transaction")
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Info().Str("id", created.ID.String()).Str("type", string(created.Type)).Str("amount", created.Amount.String()).Msg("created transaction")
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetSummary(repo db.TransactionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := repo.GetSummary(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to get summary")
			http.Error(w, "failed to get summary", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// ClearCache drops every cached transaction query.
func ClearCache(cache *db.QueryCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared := cache.ClearAllTransactionCaches()
		log.Info().Int("keys", cleared).Msg("cleared transaction caches")
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "cache cleared", "keys": cleared})
	}
}
