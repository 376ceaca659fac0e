//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonpos/internal/config"
	"salonpos/internal/infra"
	"salonpos/internal/model"
	"salonpos/internal/router"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
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

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server       *httptest.Server
	managerToken string
	waiterToken  string
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("salonpos_test"),
		tcPostgres.WithUsername("salonpos"),
		tcPostgres.WithPassword("salonpos"),
		tcPostgres.BasicWaitStrategies(),
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
		ExpiryWarnDays:     3,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed one restaurant's staff directly; everything else goes through the API
	restaurantID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	for _, u := range []*model.User{
		{RestaurantID: restaurantID, Username: "manager", Name: "Manager E2E", PasswordHash: string(hash), Role: "manager", Active: true},
		{RestaurantID: restaurantID, Username: "waiter", Name: "Waiter E2E", PasswordHash: string(hash), Role: "waiter", Active: true},
	} {
		require.NoError(t, db.Create(u).Error)
	}

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:       srv,
		managerToken: login(t, srv, "manager", "e2e-password"),
		waiterToken:  login(t, srv, "waiter", "e2e-password"),
	}
}

type idResp struct {
	ID string `json:"id"`
}

// createMojitoSetup builds the standard fixture through the API: a Lime item
// with 10 in stock and a Mojito dish whose sheet uses 2 limes per sale.
func createMojitoSetup(t *testing.T, env *testEnv) (itemID, dishID string) {
	t.Helper()

	itemResp := do(t, env.server, "POST", "/v1/items",
		jsonBody(t, map[string]any{
			"name":          "Lime",
			"purchase_unit": "unit",
			"min_stock":     "2",
			"initial_stock": "10",
		}), env.managerToken)
	require.Equal(t, http.StatusCreated, itemResp.StatusCode)
	var item idResp
	decodeJSON(t, itemResp, &item)

	dishResp := do(t, env.server, "POST", "/v1/dishes",
		jsonBody(t, map[string]any{"name": "Mojito", "price": "4.00", "category": "drinks"}),
		env.managerToken)
	require.Equal(t, http.StatusCreated, dishResp.StatusCode)
	var dish idResp
	decodeJSON(t, dishResp, &dish)

	sheetResp := do(t, env.server, "PUT", "/v1/dishes/"+dish.ID+"/sheet",
		jsonBody(t, map[string]any{
			"entries": []map[string]any{
				{"item_id": item.ID, "quantity_per_sale": "2", "unit": "unit"},
			},
		}), env.managerToken)
	require.Equal(t, http.StatusOK, sheetResp.StatusCode)

	return item.ID, dish.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullServiceCycle(t *testing.T) {
	env := setupTestEnv(t)
	itemID, dishID := createMojitoSetup(t, env)

	tableResp := do(t, env.server, "POST", "/v1/tables",
		jsonBody(t, map[string]any{"table_number": 5, "capacity": 4}), env.managerToken)
	require.Equal(t, http.StatusCreated, tableResp.StatusCode)
	var table idResp
	decodeJSON(t, tableResp, &table)

	// Waiter opens a tab on the table
	openResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{"table_id": table.ID, "guest_count": 2}), env.waiterToken)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	var order idResp
	decodeJSON(t, openResp, &order)

	// 3 mojitos: 6 limes leave the ledger, 10 → 4
	addResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/items",
		jsonBody(t, map[string]any{"dish_id": dishID, "quantity": 3}), env.waiterToken)
	require.Equal(t, http.StatusOK, addResp.StatusCode)
	var withItems struct {
		Total string `json:"total"`
	}
	decodeJSON(t, addResp, &withItems)
	assert.Equal(t, "12", withItems.Total)

	itemDetail := do(t, env.server, "GET", "/v1/items/"+itemID, nil, env.managerToken)
	require.Equal(t, http.StatusOK, itemDetail.StatusCode)
	var lime struct {
		CurrentStock string `json:"current_stock"`
	}
	decodeJSON(t, itemDetail, &lime)
	assert.Equal(t, "4", lime.CurrentStock)

	// Close as a cash sale; the table frees up
	closeResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/close",
		jsonBody(t, map[string]any{"payment_method": "cash"}), env.waiterToken)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closed struct {
		Status        string  `json:"status"`
		PaymentMethod *string `json:"payment_method"`
	}
	decodeJSON(t, closeResp, &closed)
	assert.Equal(t, "closed", closed.Status)
	require.NotNil(t, closed.PaymentMethod)
	assert.Equal(t, "cash", *closed.PaymentMethod)

	tablesResp := do(t, env.server, "GET", "/v1/tables", nil, env.waiterToken)
	require.Equal(t, http.StatusOK, tablesResp.StatusCode)
	var tables []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, tablesResp, &tables)
	require.Len(t, tables, 1)
	assert.Equal(t, "free", tables[0].Status)

	// The sale shows up in today's revenue report
	reportResp := do(t, env.server, "GET",
		fmt.Sprintf("/v1/reports/revenue?date=%s", time.Now().Format("2006-01-02")),
		nil, env.managerToken)
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	var report struct {
		Total  string `json:"total"`
		Orders int64  `json:"orders"`
	}
	decodeJSON(t, reportResp, &report)
	assert.Equal(t, "12", report.Total)
	assert.Equal(t, int64(1), report.Orders)
}

func TestE2E_ShortfallBlocksSale(t *testing.T) {
	env := setupTestEnv(t)
	itemID, dishID := createMojitoSetup(t, env)

	openResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{"customer_name": "bar", "guest_count": 1}), env.waiterToken)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	var order idResp
	decodeJSON(t, openResp, &order)

	// 6 mojitos need 12 limes, only 10 in stock
	addResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/items",
		jsonBody(t, map[string]any{"dish_id": dishID, "quantity": 6}), env.waiterToken)
	require.Equal(t, http.StatusConflict, addResp.StatusCode)
	var conflict struct {
		Shortfalls []struct {
			ItemName  string `json:"item_name"`
			Needed    string `json:"needed"`
			Available string `json:"available"`
		} `json:"shortfalls"`
	}
	decodeJSON(t, addResp, &conflict)
	require.Len(t, conflict.Shortfalls, 1)
	assert.Equal(t, "Lime", conflict.Shortfalls[0].ItemName)
	assert.Equal(t, "12", conflict.Shortfalls[0].Needed)
	assert.Equal(t, "10", conflict.Shortfalls[0].Available)

	// The failed attempt deducted nothing
	itemDetail := do(t, env.server, "GET", "/v1/items/"+itemID, nil, env.managerToken)
	var lime struct {
		CurrentStock string `json:"current_stock"`
	}
	decodeJSON(t, itemDetail, &lime)
	assert.Equal(t, "10", lime.CurrentStock)
}

func TestE2E_EmptyCloseCancelsAndReleasesTable(t *testing.T) {
	env := setupTestEnv(t)

	tableResp := do(t, env.server, "POST", "/v1/tables",
		jsonBody(t, map[string]any{"table_number": 1, "capacity": 2}), env.managerToken)
	require.Equal(t, http.StatusCreated, tableResp.StatusCode)
	var table idResp
	decodeJSON(t, tableResp, &table)

	openResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{"table_id": table.ID, "guest_count": 2}), env.waiterToken)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	var order idResp
	decodeJSON(t, openResp, &order)

	// Second open on the same table conflicts while the tab is live
	secondOpen := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{"table_id": table.ID, "guest_count": 2}), env.waiterToken)
	assert.Equal(t, http.StatusConflict, secondOpen.StatusCode)
	secondOpen.Body.Close()

	closeResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/close",
		jsonBody(t, map[string]any{}), env.waiterToken)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closed struct {
		Status string `json:"status"`
		Total  string `json:"total"`
	}
	decodeJSON(t, closeResp, &closed)
	assert.Equal(t, "cancelled", closed.Status)
	assert.Equal(t, "0", closed.Total)

	// Table is available again
	thirdOpen := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{"table_id": table.ID, "guest_count": 2}), env.waiterToken)
	assert.Equal(t, http.StatusCreated, thirdOpen.StatusCode)
	thirdOpen.Body.Close()
}

func TestE2E_ManualLedgerAndShoppingList(t *testing.T) {
	env := setupTestEnv(t)
	itemID, _ := createMojitoSetup(t, env)

	// Withdraw 9 of 10: stock 1 drops below the minimum of 2
	wResp := do(t, env.server, "POST", "/v1/stock/withdrawals",
		jsonBody(t, map[string]any{"item_id": itemID, "quantity": "9", "reason": "spoilage"}),
		env.managerToken)
	require.Equal(t, http.StatusCreated, wResp.StatusCode)

	// Withdrawing more than remains is rejected
	overResp := do(t, env.server, "POST", "/v1/stock/withdrawals",
		jsonBody(t, map[string]any{"item_id": itemID, "quantity": "5", "reason": "oops"}),
		env.managerToken)
	assert.Equal(t, http.StatusConflict, overResp.StatusCode)
	overResp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/stock/shopping-list", nil, env.managerToken)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list []struct {
		Name         string `json:"name"`
		SuggestedQty string `json:"suggested_qty"`
	}
	decodeJSON(t, listResp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Lime", list[0].Name)
	assert.Equal(t, "1", list[0].SuggestedQty)

	// Initial stock entry + withdrawal are both on the ledger
	movResp := do(t, env.server, "GET", "/v1/stock/movements?item_id="+itemID, nil, env.managerToken)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movements struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, movResp, &movements)
	assert.Equal(t, int64(2), movements.Total)
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// Waiters cannot touch the inventory catalog
	resp := do(t, env.server, "POST", "/v1/items",
		jsonBody(t, map[string]any{"name": "Contraband", "purchase_unit": "unit"}),
		env.waiterToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Or the user roster
	resp = do(t, env.server, "GET", "/v1/users", nil, env.managerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// And nothing protected works without a token
	resp = do(t, env.server, "GET", "/v1/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
