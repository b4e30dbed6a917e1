package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustmart/order-service/internal/domain/inventory"
	"github.com/trustmart/order-service/internal/domain/order"
	"github.com/trustmart/order-service/internal/storage/memory"
)

// fakeInventory is a canned in-process inventory collaborator.
type fakeInventory struct {
	products map[string]inventory.Product
	noStock  map[string]bool

	reduceCalls  int
	restoreCalls int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		products: map[string]inventory.Product{
			"p1": {ID: "p1", Name: "Widget", UnitPrice: decimal.RequireFromString("10.00")},
			"p2": {ID: "p2", Name: "Gadget", UnitPrice: decimal.RequireFromString("5.00")},
		},
		noStock: map[string]bool{},
	}
}

func (f *fakeInventory) FetchProduct(_ context.Context, id string) (*inventory.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeInventory) HasStock(_ context.Context, id string, _ int) (bool, error) {
	return !f.noStock[id], nil
}

func (f *fakeInventory) ReduceStock(context.Context, []inventory.StockUpdate) error {
	f.reduceCalls++
	return nil
}

func (f *fakeInventory) RestoreStock(context.Context, []inventory.StockUpdate) error {
	f.restoreCalls++
	return nil
}

type testEnv struct {
	srv *httptest.Server
	inv *fakeInventory
	svc *order.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	inv := newFakeInventory()
	svc := order.NewService(memory.NewOrderRepository(), inv)

	mux := http.NewServeMux()
	New(svc).Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, inv: inv, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func asUser(id, name string) map[string]string {
	return map[string]string{"X-User-Id": id, "X-User-Name": name}
}

func asAdmin() map[string]string {
	return map[string]string{"X-User-Id": "root", "X-User-Name": "root", "X-User-Roles": "ADMIN,USER"}
}

func decodeOrder(t *testing.T, resp *http.Response) orderResponse {
	t.Helper()
	defer resp.Body.Close()
	var o orderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	return o
}

const createBody = `{"items":[{"productId":"p1","quantity":2},{"productId":"p2","quantity":1}]}`

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	o := decodeOrder(t, resp)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "PENDING", o.Status)
	assert.Equal(t, "u1", o.OwnerID)
	assert.Equal(t, "alice", o.OwnerName)
	assert.InDelta(t, 25.00, o.TotalPrice, 0.001)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, env.inv.reduceCalls)
}

func TestCreateOrder_MissingIdentity(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/orders", createBody, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/orders",
		`{"items":[{"productId":"ghost","quantity":1}]}`, asUser("u1", "alice"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, env.inv.reduceCalls)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/orders", `{"items":[]}`, asUser("u1", "alice"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrder_OwnerAndStranger(t *testing.T) {
	env := newTestEnv(t)
	created := decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))

	resp := env.do(t, http.MethodGet, "/api/orders/"+created.ID, "", asUser("u1", "alice"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/orders/"+created.ID, "", asUser("u2", "bob"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/orders/"+created.ID, "", asAdmin())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/orders/ghost", "", asUser("u1", "alice"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListOrders_ScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))
	decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u2", "bob")))

	resp := env.do(t, http.MethodGet, "/api/orders", "", asUser("u1", "alice"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var mine []orderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].OwnerID)

	resp = env.do(t, http.MethodGet, "/api/orders", "", asAdmin())
	defer resp.Body.Close()
	var all []orderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all, 2)
}

func TestListOrders_StatusFilter(t *testing.T) {
	env := newTestEnv(t)
	decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))

	resp := env.do(t, http.MethodGet, "/api/orders?status=PENDING", "", asUser("u1", "alice"))
	defer resp.Body.Close()
	var pending []orderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))
	assert.Len(t, pending, 1)

	resp = env.do(t, http.MethodGet, "/api/orders?status=bogus", "", asUser("u1", "alice"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrder_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	created := decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))

	body := `{"items":[{"productId":"p2","quantity":3}]}`

	resp := env.do(t, http.MethodPut, "/api/orders/"+created.ID, body, asUser("u2", "bob"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPut, "/api/orders/"+created.ID, body, asUser("u1", "alice"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeOrder(t, resp)
	assert.InDelta(t, 15.00, updated.TotalPrice, 0.001)
	assert.Equal(t, 1, env.inv.restoreCalls, "old reservation must be compensated")
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	env := newTestEnv(t)
	created := decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))

	resp := env.do(t, http.MethodPatch, "/api/orders/"+created.ID+"/status",
		`{"status":"CONFIRMED"}`, asAdmin())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CONFIRMED", decodeOrder(t, resp).Status)

	// Confirmed -> Shipped skips Processing.
	resp = env.do(t, http.MethodPatch, "/api/orders/"+created.ID+"/status",
		`{"status":"SHIPPED"}`, asAdmin())
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	created := decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))

	resp := env.do(t, http.MethodPost, "/api/orders/"+created.ID+"/cancel", "", asUser("u2", "bob"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	assert.Zero(t, env.inv.restoreCalls)

	resp = env.do(t, http.MethodPost, "/api/orders/"+created.ID+"/cancel", "", asUser("u1", "alice"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, env.inv.restoreCalls)

	got, err := env.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, got.Status)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	created := decodeOrder(t, env.do(t, http.MethodPost, "/api/orders", createBody, asUser("u1", "alice")))

	// Not cancelled yet.
	resp := env.do(t, http.MethodDelete, "/api/orders/"+created.ID, "", asAdmin())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/orders/"+created.ID+"/cancel", "", asAdmin())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodDelete, "/api/orders/"+created.ID, "", asAdmin())
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/orders/"+created.ID, "", asAdmin())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
