package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

type stubVerifier struct {
	email string
	err   error
	got   string
}

func (v *stubVerifier) Verify(token string) (*domain.Claims, error) {
	v.got = token
	if v.err != nil {
		return nil, v.err
	}
	return &domain.Claims{Email: v.email}, nil
}

func newContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	verifier := &stubVerifier{email: "alice@example.com"}
	c, rec := newContext("Bearer abc.def.ghi")

	called := false
	handler := Chain(Authenticate(verifier))(func(c echo.Context) error {
		called = true
		if ClaimEmail(c) != "alice@example.com" {
			t.Fatalf("email not set, got %q", ClaimEmail(c))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if verifier.got != "abc.def.ghi" {
		t.Fatalf("unexpected token passed to verifier: %q", verifier.got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_LowercaseScheme(t *testing.T) {
	c, _ := newContext("bearer tok")
	if err := Authenticate(&stubVerifier{email: "a@x.com"})(c); err != nil {
		t.Fatalf("expected scheme match to be case-insensitive, got %v", err)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	cases := map[string]struct {
		header   string
		verifier *stubVerifier
	}{
		"missing header":   {"", &stubVerifier{email: "a@x.com"}},
		"wrong scheme":     {"Token abc", &stubVerifier{email: "a@x.com"}},
		"no token":         {"Bearer ", &stubVerifier{email: "a@x.com"}},
		"verifier refuses": {"Bearer abc", &stubVerifier{err: domain.ErrUnauthenticated}},
	}

	for name, tc := range cases {
		c, _ := newContext(tc.header)
		handler := Chain(Authenticate(tc.verifier))(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", name)
			return nil
		})

		err := handler(c)
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
		if ClaimEmail(c) != "" {
			t.Errorf("%s: email must not be set on failure", name)
		}
	}
}

func TestChain_StopsAtFirstFailure(t *testing.T) {
	c, _ := newContext("")
	var order []string
	first := func(echo.Context) error { order = append(order, "first"); return domain.ErrUnauthenticated }
	second := func(echo.Context) error { order = append(order, "second"); return nil }

	err := Chain(first, second)(func(echo.Context) error {
		t.Fatalf("handler must not run")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected first guard error, got %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("expected only first guard to run, got %v", order)
	}
}
