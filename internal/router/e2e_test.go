//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AhmadAdewumi/inventro/internal/config"
	"github.com/AhmadAdewumi/inventro/internal/infra"
	"github.com/AhmadAdewumi/inventro/internal/router"
	"github.com/AhmadAdewumi/inventro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // owner JWT
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("inventro_test"),
		tcPostgres.WithUsername("inventro"),
		tcPostgres.WithPassword("inventro"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	// NewDatabase runs the migrations, trigger included.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (username, name, email, password_hash, role)
		VALUES ('owner', 'Owner E2E', 'owner@e2e.test', ?, 'owner')
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "owner", "password": "e2e-pass"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, db: db}
}

func (env *testEnv) createVariant(t *testing.T, sku, barcode string, price string, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/variants",
		jsonBody(t, map[string]any{
			"name":    "E2E Soda",
			"sku":     sku,
			"barcode": barcode,
			"price":   price,
			"stock":   stock,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var v struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &v)
	return v.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_SaleCycleAndLedgerReplay(t *testing.T) {
	env := setupTestEnv(t)
	variantID := env.createVariant(t, "E2E-01", "7790010000001", "2.50", 20)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"lines": []map[string]any{
				{"barcode": "7790010000001", "quantity": 3},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "completed", sale.Status)
	assert.Equal(t, "7.5", sale.TotalAmount)

	// Opening stock + sale replay cleanly from zero.
	verifyResp := do(t, env.server, "GET", "/v1/inventory/ledger/"+variantID+"/verify", nil, env.token)
	require.Equal(t, http.StatusOK, verifyResp.StatusCode)
	var verify struct {
		Entries       int  `json:"entries"`
		ReplayedStock int  `json:"replayed_stock"`
		LiveStock     int  `json:"live_stock"`
		Consistent    bool `json:"consistent"`
	}
	decodeJSON(t, verifyResp, &verify)
	assert.Equal(t, 2, verify.Entries)
	assert.Equal(t, 17, verify.ReplayedStock)
	assert.Equal(t, 17, verify.LiveStock)
	assert.True(t, verify.Consistent)
}

func TestE2E_LedgerIsAppendOnlyAtStorageLayer(t *testing.T) {
	env := setupTestEnv(t)
	env.createVariant(t, "E2E-02", "7790010000002", "1.00", 5)

	err := env.db.Exec(`UPDATE ledger_entries SET quantity_change = 999`).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	err = env.db.Exec(`DELETE FROM ledger_entries`).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")
}

func TestE2E_RefundRestoresStock(t *testing.T) {
	env := setupTestEnv(t)
	variantID := env.createVariant(t, "E2E-03", "7790010000003", "10.00", 10)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"lines":          []map[string]any{{"barcode": "7790010000003", "quantity": 4}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)

	refundResp := do(t, env.server, "POST", fmt.Sprintf("/v1/sales/%s/refund", sale.ID),
		jsonBody(t, map[string]any{
			"items": []map[string]any{{"barcode": "7790010000003", "quantity": 4}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusOK, refundResp.StatusCode)
	var refund struct {
		RefundedTotal string `json:"refunded_total"`
	}
	decodeJSON(t, refundResp, &refund)
	assert.Equal(t, "40", refund.RefundedTotal)

	variantResp := do(t, env.server, "GET", "/v1/variants/"+variantID, nil, env.token)
	require.Equal(t, http.StatusOK, variantResp.StatusCode)
	var variant struct {
		StockQuantity int `json:"stock_quantity"`
	}
	decodeJSON(t, variantResp, &variant)
	assert.Equal(t, 10, variant.StockQuantity)
}

func TestE2E_PriceLookupIsPublicAndCached(t *testing.T) {
	env := setupTestEnv(t)
	env.createVariant(t, "E2E-04", "7790010000004", "3.75", 5)

	// No token: the price check endpoint is public.
	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "GET", "/v1/price/7790010000004", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var price struct {
			Price string `json:"price"`
		}
		decodeJSON(t, resp, &price)
		assert.Equal(t, "3.75", price.Price)
	}
}
