package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"

	"github.com/awesome-restaurant/restaurant-api/internal/api/handler"
	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/service"
)

type testServer struct {
	e       *echo.Echo
	store   *memStore
	gateway *recordingGateway
	tokens  *service.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := newMemStore()
	gateway := &recordingGateway{}
	tokens := service.NewTokenService("test-secret", time.Hour)
	carts := service.NewCartService(memCarts{store}, log)

	e := NewRouter(Dependencies{
		Log:     log,
		Tokens:  tokens,
		Users:   service.NewUserService(memUsers{store}, log),
		Menu:    service.NewMenuService(memMenu{store}, log),
		Reviews: service.NewReviewService(memReviews{store}),
		Carts:   carts,
		Checkout: service.NewCheckoutService(memPayments{store}, gateway, noLock{}, discardQueue{},
			service.CheckoutOptions{Currency: currency.USD, Timeout: time.Second}, log),
		Reports: service.NewReportingService(memStats{store}),
		Health: map[string]handler.Check{
			"mongodb": func(context.Context) error { return nil },
		},
	})
	return &testServer{e: e, store: store, gateway: gateway, tokens: tokens}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.tokens.Issue(email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users", "", map[string]string{"name": "Test", "email": email})
	if rec.Code != http.StatusOK {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
	}
	res := decode[map[string]*string](t, rec)
	if res["insertedId"] == nil {
		t.Fatalf("register %s: no insertedId", email)
	}
	return *res["insertedId"]
}

func (s *testServer) addCart(t *testing.T, email, menuID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/carts", "", map[string]any{"email": email, "menuId": menuID, "name": "Dish", "price": 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("add cart: %d %s", rec.Code, rec.Body.String())
	}
	return *decode[map[string]*string](t, rec)["insertedId"]
}

func TestRouter_Root(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "Awesome Restaurant is running" {
		t.Fatalf("unexpected root response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_IssueToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/jwt", "", map[string]string{"email": "a@x.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	tok := decode[map[string]string](t, rec)["token"]
	claims, err := s.tokens.Verify(tok)
	if err != nil || claims.Email != "a@x.com" {
		t.Fatalf("issued token does not verify: %v", err)
	}

	rec = s.do(t, http.MethodPost, "/jwt", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", rec.Code)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	cartID := s.addCart(t, "a@x.com", "m1")

	routes := []struct{ method, target string }{
		{http.MethodPost, "/menu"},
		{http.MethodDelete, "/menu/m1"},
		{http.MethodGet, "/carts?email=a@x.com"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/admin/a@x.com"},
		{http.MethodPost, "/create-payment-intent"},
		{http.MethodPost, "/payments"},
		{http.MethodGet, "/payments/a@x.com"},
		{http.MethodGet, "/admin-stats"},
	}

	for _, r := range routes {
		for _, tok := range []string{"", "garbage"} {
			body := map[string]any{"price": 5, "cartIds": []string{cartID}, "email": "a@x.com"}
			rec := s.do(t, r.method, r.target, tok, body)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s (token %q): expected 401, got %d", r.method, r.target, tok, rec.Code)
				continue
			}
			env := decode[handler.ErrorResponse](t, rec)
			if !env.Error || env.Message != "unauthorized access" {
				t.Errorf("%s %s: unexpected envelope %+v", r.method, r.target, env)
			}
		}
	}

	if len(s.store.carts) != 1 || len(s.store.payments) != 0 {
		t.Fatalf("rejected requests must not mutate the store")
	}
	if len(s.gateway.amounts) != 0 {
		t.Fatalf("rejected requests must not reach the gateway")
	}
}

func TestRouter_ExpiredTokenRejected(t *testing.T) {
	s := newTestServer(t)
	expired := service.NewTokenService("test-secret", time.Nanosecond)
	tok, _ := expired.Issue("a@x.com")
	time.Sleep(1100 * time.Millisecond)

	rec := s.do(t, http.MethodGet, "/carts?email=a@x.com", tok, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestRouter_CartSelfScope(t *testing.T) {
	s := newTestServer(t)
	s.addCart(t, "a@x.com", "m1")
	s.addCart(t, "b@x.com", "m2")
	tok := s.token(t, "a@x.com")

	rec := s.do(t, http.MethodGet, "/carts?email=b@x.com", tok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if env := decode[handler.ErrorResponse](t, rec); env.Message != "forbidden access" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	rec = s.do(t, http.MethodGet, "/carts?email=a@x.com", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	entries := decode[[]domain.CartEntry](t, rec)
	if len(entries) != 1 || entries[0].Email != "a@x.com" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	rec = s.do(t, http.MethodGet, "/carts", tok, nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list without email, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminScopeAfterPromotion(t *testing.T) {
	s := newTestServer(t)
	id := s.register(t, "boss@x.com")
	tok := s.token(t, "boss@x.com")

	if rec := s.do(t, http.MethodGet, "/users", tok, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before promotion, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/admin-stats", tok, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before promotion, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodPatch, "/users/admin/"+id, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("promote: %d %s", rec.Code, rec.Body.String())
	}
	upd := decode[map[string]int64](t, rec)
	if upd["matchedCount"] != 1 || upd["modifiedCount"] != 1 {
		t.Fatalf("unexpected update result: %v", upd)
	}

	if rec := s.do(t, http.MethodGet, "/users", tok, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after promotion, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/menu", tok, map[string]any{"name": "Tiramisu", "category": "Dessert", "price": 6.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("create menu item: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CheckAdmin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com")
	tok := s.token(t, "a@x.com")

	rec := s.do(t, http.MethodGet, "/users/admin/a@x.com", tok, nil)
	if rec.Code != http.StatusOK || decode[map[string]bool](t, rec)["admin"] {
		t.Fatalf("expected {admin:false}, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/users/admin/b@x.com", tok, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for someone else's email, got %d", rec.Code)
	}
}

func TestRouter_RegisterTwice(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com")

	rec := s.do(t, http.MethodPost, "/users", "", map[string]string{"email": "a@x.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	res := decode[map[string]any](t, rec)
	if res["message"] != "user already exists" || res["insertedId"] != nil {
		t.Fatalf("unexpected body: %v", res)
	}
	if len(s.store.users) != 1 {
		t.Fatalf("expected one stored identity, got %d", len(s.store.users))
	}
}

func TestRouter_DeleteAbsentCartTwice(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodDelete, "/carts/missing", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, rec.Code)
		}
		if n := decode[map[string]int64](t, rec)["deletedCount"]; n != 0 {
			t.Fatalf("attempt %d: expected deletedCount 0, got %d", i, n)
		}
	}
}

func TestRouter_PaymentIntent(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "a@x.com")

	rec := s.do(t, http.MethodPost, "/create-payment-intent", tok, map[string]any{"price": 12.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if secret := decode[map[string]string](t, rec)["clientSecret"]; secret == "" {
		t.Fatalf("missing clientSecret")
	}

	for _, price := range []any{-1, "abc"} {
		rec = s.do(t, http.MethodPost, "/create-payment-intent", tok, map[string]any{"price": price})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("price %v: expected 400, got %d", price, rec.Code)
		}
	}

	if len(s.gateway.amounts) != 1 || s.gateway.amounts[0] != 1250 {
		t.Fatalf("expected exactly one gateway call for 1250, got %v", s.gateway.amounts)
	}
}

func TestRouter_SettlementRetiresCartEntries(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "a@x.com")
	a := s.addCart(t, "a@x.com", "m1")
	b := s.addCart(t, "a@x.com", "m2")
	c := s.addCart(t, "a@x.com", "m3")

	rec := s.do(t, http.MethodPost, "/payments", tok, map[string]any{
		"email":         "a@x.com",
		"price":         20,
		"transactionId": "pi_123",
		"cartIds":       []string{a, b},
		"menuItemIds":   []string{"m1", "m2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("settle: %d %s", rec.Code, rec.Body.String())
	}
	var res struct {
		InsertResult struct {
			InsertedID string `json:"insertedId"`
		} `json:"insertResult"`
		DeleteResult struct {
			DeletedCount int64 `json:"deletedCount"`
		} `json:"deleteResult"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.InsertResult.InsertedID == "" || res.DeleteResult.DeletedCount != 2 {
		t.Fatalf("unexpected settlement: %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/carts?email=a@x.com", tok, nil)
	entries := decode[[]domain.CartEntry](t, rec)
	if len(entries) != 1 || entries[0].ID != c {
		t.Fatalf("expected only %s left, got %+v", c, entries)
	}

	rec = s.do(t, http.MethodGet, "/payments/a@x.com", tok, nil)
	payments := decode[[]domain.Payment](t, rec)
	if len(payments) != 1 || len(payments[0].CartItemIDs) != 2 {
		t.Fatalf("expected one payment referencing both entries, got %+v", payments)
	}

	rec = s.do(t, http.MethodPost, "/payments", tok, map[string]any{"price": 20, "cartIds": []string{a, b}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replaying consumed entries: expected 400, got %d", rec.Code)
	}
	if len(s.store.payments) != 1 {
		t.Fatalf("expected exactly one payment, got %d", len(s.store.payments))
	}
}

func TestRouter_SettlementPayerMismatch(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "a@x.com")
	entry := s.addCart(t, "b@x.com", "m1")

	rec := s.do(t, http.MethodPost, "/payments", tok, map[string]any{"email": "b@x.com", "price": 5, "cartIds": []string{entry}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/payments/b@x.com", tok, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on foreign history, got %d", rec.Code)
	}
}

func TestRouter_Stats(t *testing.T) {
	s := newTestServer(t)
	id := s.register(t, "boss@x.com")
	s.do(t, http.MethodPatch, "/users/admin/"+id, "", nil)
	adminTok := s.token(t, "boss@x.com")

	rec := s.do(t, http.MethodPost, "/menu", adminTok, map[string]any{"name": "Caesar", "category": "salad", "price": 8.5})
	salad := *decode[map[string]*string](t, rec)["insertedId"]

	buyer := s.token(t, "a@x.com")
	for _, price := range []float64{10, 20.5, 5} {
		entry := s.addCart(t, "a@x.com", salad)
		rec := s.do(t, http.MethodPost, "/payments", buyer, map[string]any{"price": price, "cartIds": []string{entry}, "menuItemIds": []string{salad}})
		if rec.Code != http.StatusOK {
			t.Fatalf("settle %v: %d %s", price, rec.Code, rec.Body.String())
		}
	}

	rec = s.do(t, http.MethodGet, "/admin-stats", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin-stats: %d", rec.Code)
	}
	stats := decode[domain.SummaryStats](t, rec)
	if stats.Revenue != 35.5 || stats.Orders != 3 || stats.MenuItems != 1 || stats.Users != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	rec = s.do(t, http.MethodGet, "/order-stats", "", nil)
	breakdown := decode[[]domain.CategoryStat](t, rec)
	if len(breakdown) != 1 || breakdown[0].Category != "salad" || breakdown[0].Count != 3 || breakdown[0].Total != 25.5 {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("liveness: %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("readiness: %d %s", rec.Code, rec.Body.String())
	}
}
