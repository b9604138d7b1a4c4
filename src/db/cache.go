package db

import (
	"context"
	"dtmoney-server/src/models"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

// QueryCache stores transaction list results per query.
// Keys are tracked separately so every cached query can be dropped at once.
type QueryCache struct {
	cache *ristretto.Cache
	ttl   time.Duration

	transactionKeys struct {
		sync.RWMutex
		m map[string]struct{}
		// generation is bumped by every clear. Results read before a clear are not cached.
		generation uint64
	}
}

func NewQueryCache(ttl time.Duration) (*QueryCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	c := &QueryCache{cache: cache, ttl: ttl}
	c.transactionKeys.m = make(map[string]struct{})
	return c, nil
}

// TransactionCacheKey keys on the query as sent. Case folding is left to the
// repository so a key never serves a result computed for another query.
func TransactionCacheKey(query string) string {
	return "transactions:q=" + query
}

func (c *QueryCache) GetTransactions(query string) ([]models.Transaction, bool) {
	value, ok := c.cache.Get(TransactionCacheKey(query))
	if !ok {
		return nil, false
	}
	cached, ok := value.([]models.Transaction)
	if !ok {
		return nil, false
	}
	return append([]models.Transaction(nil), cached...), true
}

func (c *QueryCache) SetTransactions(query string, transactions []models.Transaction) {
	c.transactionKeys.Lock()
	defer c.transactionKeys.Unlock()
	c.setLocked(query, transactions)
}

// Generation identifies the current cache contents. Capture it before reading
// the repository and pass it to SetTransactionsIfCurrent.
func (c *QueryCache) Generation() uint64 {
	c.transactionKeys.RLock()
	defer c.transactionKeys.RUnlock()
	return c.transactionKeys.generation
}

// SetTransactionsIfCurrent caches transactions only if no clear happened since
// generation was captured, and reports whether it did.
func (c *QueryCache) SetTransactionsIfCurrent(query string, transactions []models.Transaction, generation uint64) bool {
	c.transactionKeys.Lock()
	defer c.transactionKeys.Unlock()
	if c.transactionKeys.generation != generation {
		return false
	}
	c.setLocked(query, transactions)
	return true
}

func (c *QueryCache) setLocked(query string, transactions []models.Transaction) {
	key := TransactionCacheKey(query)
	c.transactionKeys.m[key] = struct{}{}
	c.cache.SetWithTTL(key, append([]models.Transaction(nil), transactions...), 1, c.ttl)
	c.cache.Wait()
}

func (c *QueryCache) ClearAllTransactionCaches() int {
	c.transactionKeys.Lock()
	defer c.transactionKeys.Unlock()
	n := len(c.transactionKeys.m)
	for key := range c.transactionKeys.m {
		c.cache.Del(key)
	}
	c.transactionKeys.m = make(map[string]struct{})
	c.transactionKeys.generation++
	return n
}

func (c *QueryCache) Close() {
	c.cache.Close()
}

// CachedRepository serves list queries from a QueryCache and invalidates it on writes.
type CachedRepository struct {
	TransactionRepository
	Cache *QueryCache
}

func NewCachedRepository(repo TransactionRepository, cache *QueryCache) *CachedRepository {
	return &CachedRepository{TransactionRepository: repo, Cache: cache}
}

func (r *CachedRepository) ListTransactions(ctx context.Context, query string) ([]models.Transaction, error) {
	if cached, ok := r.Cache.GetTransactions(query); ok {
		log.Debug().Str("query", query).Msg("transaction cache hit")
		return cached, nil
	}
	generation := r.Cache.Generation()
	transactions, err := r.TransactionRepository.ListTransactions(ctx, query)
	if err != nil {
		return nil, err
	}
	if !r.Cache.SetTransactionsIfCurrent(query, transactions, generation) {
		log.Debug().Str("query", query).Msg("cache cleared during list, not caching result")
	}
	return transactions, nil
}

func (r *CachedRepository) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	created, err := r.TransactionRepository.CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	r.Cache.ClearAllTransactionCaches()
	return created, nil
}
