package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"MiniMart/internal/api"
	"MiniMart/internal/auth"
	"MiniMart/internal/catalog"
	"MiniMart/internal/platform"
)

const jwtSecret = "test-secret-test-secret-test-secret"

type fixture struct {
	ts       *httptest.Server
	platform *platform.Platform
	admin    string
	user1    string
	user2    string
}

func newFixture(t *testing.T, deps api.HTTPDeps) fixture {
	t.Helper()

	tm := auth.NewTokenMaker(jwtSecret)
	p := platform.New()
	s := &api.Server{Platform: p, JWT: tm, Log: zap.NewNop()}

	deps.Log = zap.NewNop()
	deps.Service = "minimart"
	ts := httptest.NewServer(api.NewHandler(s, deps))
	t.Cleanup(ts.Close)

	mint := func(id int, role string) string {
		tok, err := tm.New(id, role, time.Minute)
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		return tok
	}

	return fixture{
		ts:       ts,
		platform: p,
		admin:    mint(0, auth.RoleAdmin),
		user1:    mint(1, auth.RoleUser),
		user2:    mint(2, auth.RoleUser),
	}
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func expect(t *testing.T, resp *http.Response, raw []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s status=%d want=%d body=%s",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, string(raw))
	}
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	return v
}

func seed(t *testing.T, f fixture) {
	t.Helper()

	for _, p := range []map[string]any{
		{"id": 1, "name": "Product1", "price": "20", "stock": 50},
		{"id": 2, "name": "Product2", "price": "15", "stock": 30},
		{"id": 3, "name": "Cable", "price": "5.5", "stock": 0},
	} {
		resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/products", f.admin, p)
		expect(t, resp, raw, http.StatusCreated)
	}
	for _, u := range []map[string]any{
		{"id": 1, "username": "User1"},
		{"id": 2, "username": "User2"},
	} {
		resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/users", f.admin, u)
		expect(t, resp, raw, http.StatusCreated)
	}
}

func TestAPI_HappyPath(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{})
	seed(t, f)

	{
		resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/users/1/cart", f.user1, map[string]any{"product_id": 1, "qty": 3})
		expect(t, resp, raw, http.StatusOK)

		lines := decode[[]catalog.Line](t, raw)
		if len(lines) != 1 || lines[0].Product.ID != 1 || lines[0].Qty != 3 {
			t.Fatalf("cart=%+v", lines)
		}
	}

	var created platform.OrderView
	{
		resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/orders", f.user1, map[string]any{
			"id":      1,
			"user_id": 1,
			"items":   []map[string]any{{"product_id": 1, "qty": 3}},
		})
		expect(t, resp, raw, http.StatusCreated)

		created = decode[platform.OrderView](t, raw)
		if !created.Total.Equal(decimal.NewFromInt(60)) {
			t.Fatalf("total=%s", created.Total)
		}
	}

	{
		resp, raw := doJSON(t, http.MethodPut, f.ts.URL+"/products/1/stock", f.admin, map[string]any{"stock": 47})
		expect(t, resp, raw, http.StatusOK)
		if p := decode[catalog.Product](t, raw); p.Stock != 47 {
			t.Fatalf("stock=%d", p.Stock)
		}

		resp, raw = doJSON(t, http.MethodPut, f.ts.URL+"/products/99/stock", f.admin, map[string]any{"stock": 1})
		expect(t, resp, raw, http.StatusNotFound)
	}

	{
		resp, raw := doJSON(t, http.MethodPatch, f.ts.URL+"/products/1", f.admin, map[string]any{"price": "25"})
		expect(t, resp, raw, http.StatusOK)

		resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/orders/1", f.user1, nil)
		expect(t, resp, raw, http.StatusOK)
		if got := decode[platform.OrderView](t, raw); !got.Total.Equal(decimal.NewFromInt(75)) {
			t.Fatalf("repriced total=%s", got.Total)
		}
	}

	{
		resp, raw := doJSON(t, http.MethodGet, f.ts.URL+"/users/1/recommendations", f.user1, nil)
		expect(t, resp, raw, http.StatusOK)
		if recs := decode[[]catalog.Product](t, raw); len(recs) != 0 {
			t.Fatalf("product still in cart, recs=%+v", recs)
		}

		resp, raw = doJSON(t, http.MethodPut, f.ts.URL+"/users/1/cart", f.user1, map[string]any{"product_id": 2, "qty": 1})
		expect(t, resp, raw, http.StatusOK)

		// Removing all units leaves the cart entry in place at zero.
		resp, raw = doJSON(t, http.MethodDelete, f.ts.URL+"/users/1/cart", f.user1, map[string]any{"product_id": 1, "qty": 5})
		expect(t, resp, raw, http.StatusOK)
		lines := decode[[]catalog.Line](t, raw)
		if len(lines) != 2 || lines[0].Qty != 0 {
			t.Fatalf("cart=%+v", lines)
		}
	}
}

func TestAPI_Recommendations(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{})
	seed(t, f)

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/orders", f.user2, map[string]any{
		"id":      5,
		"user_id": 2,
		"items":   []map[string]any{{"product_id": 1, "qty": 1}, {"product_id": 2, "qty": 2}},
	})
	expect(t, resp, raw, http.StatusCreated)

	resp, raw = doJSON(t, http.MethodPost, f.ts.URL+"/users/2/cart", f.user2, map[string]any{"product_id": 2, "qty": 1})
	expect(t, resp, raw, http.StatusOK)

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/users/2/recommendations", f.user2, nil)
	expect(t, resp, raw, http.StatusOK)

	recs := decode[[]catalog.Product](t, raw)
	if len(recs) != 1 || recs[0].ID != 1 {
		t.Fatalf("recs=%+v", recs)
	}
}

func TestAPI_ProductQueries(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{})
	seed(t, f)

	cases := []struct {
		sort string
		want []int
	}{
		{"", []int{3, 2, 1}},
		{"price", []int{3, 2, 1}},
		{"name", []int{3, 1, 2}},
		{"stock", []int{3, 2, 1}},
	}
	for _, tc := range cases {
		resp, raw := doJSON(t, http.MethodGet, f.ts.URL+"/products?sort="+tc.sort, "", nil)
		expect(t, resp, raw, http.StatusOK)

		got := decode[[]catalog.Product](t, raw)
		if len(got) != len(tc.want) {
			t.Fatalf("sort=%q got %d products", tc.sort, len(got))
		}
		for i, p := range got {
			if p.ID != tc.want[i] {
				t.Fatalf("sort=%q order=%+v", tc.sort, got)
			}
		}
	}

	resp, raw := doJSON(t, http.MethodGet, f.ts.URL+"/products?sort=rating", "", nil)
	expect(t, resp, raw, http.StatusBadRequest)

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products/available", "", nil)
	expect(t, resp, raw, http.StatusOK)
	if got := decode[[]catalog.Product](t, raw); len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("available=%+v", got)
	}

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products/2", "", nil)
	expect(t, resp, raw, http.StatusOK)
	if p := decode[catalog.Product](t, raw); p.Name != "Product2" {
		t.Fatalf("product=%+v", p)
	}

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products/42", "", nil)
	expect(t, resp, raw, http.StatusNotFound)

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products/abc", "", nil)
	expect(t, resp, raw, http.StatusBadRequest)
}

func TestAPI_AccessControl(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{})
	seed(t, f)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"write product without token", http.MethodPost, "/products", "", map[string]any{"id": 9, "name": "x", "price": "1", "stock": 1}, http.StatusUnauthorized},
		{"write product as user", http.MethodPost, "/products", f.user1, map[string]any{"id": 9, "name": "x", "price": "1", "stock": 1}, http.StatusForbidden},
		{"negative price", http.MethodPost, "/products", f.admin, map[string]any{"id": 9, "name": "x", "price": "-1", "stock": 1}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/users", f.admin, map[string]any{"id": 9, "username": "x", "email": "x@y"}, http.StatusBadRequest},
		{"other user's cart", http.MethodGet, "/users/2/cart", f.user1, nil, http.StatusForbidden},
		{"admin reads any cart", http.MethodGet, "/users/2/cart", f.admin, nil, http.StatusOK},
		{"unknown product in cart", http.MethodPost, "/users/1/cart", f.user1, map[string]any{"product_id": 42, "qty": 1}, http.StatusNotFound},
		{"order for someone else", http.MethodPost, "/orders", f.user1, map[string]any{"id": 3, "user_id": 2, "items": []map[string]any{{"product_id": 1, "qty": 1}}}, http.StatusForbidden},
		{"order with unknown product", http.MethodPost, "/orders", f.user1, map[string]any{"id": 3, "user_id": 1, "items": []map[string]any{{"product_id": 42, "qty": 1}}}, http.StatusBadRequest},
		{"order without items", http.MethodPost, "/orders", f.user1, map[string]any{"id": 3, "user_id": 1}, http.StatusBadRequest},
		{"missing order", http.MethodGet, "/orders/404", f.user1, nil, http.StatusNotFound},
		{"negative add to cart", http.MethodPost, "/users/1/cart", f.user1, map[string]any{"product_id": 1, "qty": -5}, http.StatusBadRequest},
		{"negative remove from cart", http.MethodDelete, "/users/1/cart", f.user1, map[string]any{"product_id": 1, "qty": -5}, http.StatusBadRequest},
		{"negative set cart", http.MethodPut, "/users/1/cart", f.user1, map[string]any{"product_id": 1, "qty": -1}, http.StatusBadRequest},
		{"negative order qty", http.MethodPost, "/orders", f.user1, map[string]any{"id": 3, "user_id": 1, "items": []map[string]any{{"product_id": 1, "qty": -3}}}, http.StatusBadRequest},
		{"zero order qty", http.MethodPost, "/orders", f.user1, map[string]any{"id": 3, "user_id": 1, "items": []map[string]any{{"product_id": 1, "qty": 2}, {"product_id": 2, "qty": 0}}}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doJSON(t, tc.method, f.ts.URL+tc.path, tc.token, tc.body)
			expect(t, resp, raw, tc.want)
		})
	}

	lines, _ := f.platform.Cart(1)
	if len(lines) != 0 {
		t.Fatalf("rejected requests changed the cart: %+v", lines)
	}
	if _, ok := f.platform.Order(3); ok {
		t.Fatalf("rejected order was stored")
	}
}

func TestAPI_ReadOtherUsersOrder(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{})
	seed(t, f)

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/orders", f.user1, map[string]any{
		"id":      1,
		"user_id": 1,
		"items":   []map[string]any{{"product_id": 2, "qty": 1}},
	})
	expect(t, resp, raw, http.StatusCreated)

	resp, raw = doJSON(t, http.MethodPatch, f.ts.URL+"/products/2", f.admin, map[string]any{"price": "40"})
	expect(t, resp, raw, http.StatusOK)

	// Someone else's order looks exactly like a missing one and keeps its stored total.
	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/orders/1", f.user2, nil)
	expect(t, resp, raw, http.StatusNotFound)

	o, ok := f.platform.Order(1)
	if !ok {
		t.Fatalf("order 1 missing")
	}
	if !o.TotalPrice().Equal(decimal.NewFromInt(15)) {
		t.Fatalf("total recalculated by a foreign read: %s", o.TotalPrice())
	}

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/orders/1", f.user1, nil)
	expect(t, resp, raw, http.StatusOK)
	if got := decode[platform.OrderView](t, raw); !got.Total.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("owner total=%s", got.Total)
	}
}

func TestAPI_Metrics(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	})
	seed(t, f)

	resp, raw := doJSON(t, http.MethodGet, f.ts.URL+"/metrics", "", nil)
	expect(t, resp, raw, http.StatusForbidden)

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/metrics", "scrape", nil)
	expect(t, resp, raw, http.StatusOK)

	body := string(raw)
	for _, want := range []string{"minimart_products 3", "minimart_users 2", "minimart_http_requests_total"} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestAPI_WriteRateLimit(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{WriteLimit: 1, WriteWindowSeconds: 60})

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/users", f.admin, map[string]any{"id": 1, "username": "User1"})
	expect(t, resp, raw, http.StatusCreated)

	resp, raw = doJSON(t, http.MethodPost, f.ts.URL+"/users", f.admin, map[string]any{"id": 2, "username": "User2"})
	expect(t, resp, raw, http.StatusTooManyRequests)

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products", "", nil)
	expect(t, resp, raw, http.StatusOK)
}

func TestAPI_Health(t *testing.T) {
	f := newFixture(t, api.HTTPDeps{})

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, raw := doJSON(t, http.MethodGet, f.ts.URL+path, "", nil)
		expect(t, resp, raw, http.StatusOK)
	}
}
