package api

import (
	"dtmoney-server/src/db"
	"dtmoney-server/src/db/memory"
	"dtmoney-server/src/handlers"
	"dtmoney-server/src/models"
	"dtmoney-server/src/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	cache, err := db.NewQueryCache(time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	repo := db.NewCachedRepository(memory.NewRepository(memory.SeedTransactions()), cache)
	return NewRouter(repo, cache, opts)
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(t, Options{}), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListTransactions(t *testing.T) {
	h := newTestRouter(t, Options{})

	tests := []struct {
		target string
		want   []string
	}{
		{"/api/transactions?q=site", []string{"Desenvolvimento de site"}},
		{"/api/transactions?q=SITE", []string{"Desenvolvimento de site"}},
		{"/api/transactions", []string{"Hamburger", "Desenvolvimento de site"}},
		{"/api/transactions?q=", []string{"Hamburger", "Desenvolvimento de site"}},
		{"/api/transactions?q=pizza", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tc.target, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var txs []models.Transaction
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
			got := []string{}
			for _, tx := range txs {
				got = append(got, tx.Description)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateTransaction(t *testing.T) {
	h := newTestRouter(t, Options{})

	// Warm the cache so creation has something to invalidate.
	serve(h, http.MethodGet, "/api/transactions", "", nil)

	rec := serve(h, http.MethodPost, "/api/transactions",
		`{"description":"Freelance","amount":"800","category":"Venda","type":"income"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Freelance", created.Description)
	assert.Equal(t, models.Income, created.Type)

	rec = serve(h, http.MethodGet, "/api/transactions", "", nil)
	var txs []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	assert.Len(t, txs, 3)
}

func TestCreateTransaction_Invalid(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := serve(h, http.MethodPost, "/api/transactions", `{"description":"","amount":"-1","category":"x","type":"gift"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"description": "required", "amount": "gt", "type": "oneof"}, body.Fields)

	rec = serve(h, http.MethodPost, "/api/transactions", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	amounts := []struct {
		amount string
		tag    string
	}{
		{"0.004", "money"},
		{"10.999", "money"},
		{"1000000000000", "money"},
		{"0", "gt"},
	}
	for _, tc := range amounts {
		t.Run(tc.amount, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/api/transactions",
				`{"description":"Troco","amount":"`+tc.amount+`","category":"Outros","type":"income"}`, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Fields map[string]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]string{"amount": tc.tag}, body.Fields)
		})
	}

	rec = serve(h, http.MethodPost, "/api/transactions",
		`{"description":"Troco","amount":"999999999999.99","category":"Outros","type":"income"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateTransaction_JWT(t *testing.T) {
	h := newTestRouter(t, Options{JWTSecret: "s3cret"})
	body := `{"description":"Freelance","amount":"800","category":"Venda","type":"income"}`

	rec := serve(h, http.MethodPost, "/api/transactions", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrong, err := util.SignToken("other", "tester", time.Minute)
	require.NoError(t, err)
	rec = serve(h, http.MethodPost, "/api/transactions", body, map[string]string{"Authorization": "Bearer " + wrong})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	good, err := util.SignToken("s3cret", "tester", time.Minute)
	require.NoError(t, err)
	rec = serve(h, http.MethodPost, "/api/transactions", body, map[string]string{"Authorization": "Bearer " + good})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Reads stay public.
	rec = serve(h, http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSummary(t *testing.T) {
	rec := serve(newTestRouter(t, Options{}), http.MethodGet, "/api/transactions/summary", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "12000", summary.Income.String())
	assert.Equal(t, "59", summary.Outcome.String())
	assert.Equal(t, "11941", summary.Total.String())
}

func TestClearCache(t *testing.T) {
	h := newTestRouter(t, Options{})
	serve(h, http.MethodGet, "/api/transactions?q=site", "", nil)
	serve(h, http.MethodGet, "/api/transactions", "", nil)

	rec := serve(h, http.MethodPost, "/api/admin/cache/clear", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys int `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Keys)
}

func TestDemoModeIsReadOnly(t *testing.T) {
	h := newTestRouter(t, Options{DemoMode: true})

	rec := serve(h, http.MethodPost, "/api/transactions",
		`{"description":"Freelance","amount":"800","category":"Venda","type":"income"}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t, Options{AllowedOrigins: []string{"https://dtmoney.app"}})

	rec := serve(h, http.MethodGet, "/api/transactions", "", map[string]string{"Origin": "https://dtmoney.app"})
	assert.Equal(t, "https://dtmoney.app", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, http.MethodGet, "/api/transactions", "", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	h := newTestRouter(t, Options{
		JWTSecret: "s3cret",
		Admin:     handlers.Credentials{Username: "admin", PasswordHash: hash},
		TokenTTL:  time.Hour,
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"root","password":"hunter22"}`, http.StatusUnauthorized},
		{"bad body", `{`, http.StatusBadRequest},
		{"valid", `{"username":" Admin ","password":"hunter22"}`, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/api/auth/login", tc.body, nil)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	rec := serve(h, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"hunter22"}`, nil)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	rec = serve(h, http.MethodPost, "/api/transactions",
		`{"description":"Freelance","amount":"800","category":"Venda","type":"income"}`,
		map[string]string{"Authorization": "Bearer " + body.Token})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLogin_DisabledWithoutPasswordHash(t *testing.T) {
	h := newTestRouter(t, Options{JWTSecret: "s3cret"})
	rec := serve(h, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"x"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
