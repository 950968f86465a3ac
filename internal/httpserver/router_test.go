package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	"storefront-api/internal/service/identity"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubIdentity struct {
	customer  *domain.Customer
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubIdentity) Signup(_ context.Context, _ identity.SignupInput) (*domain.Customer, error) {
	return s.customer, s.signupErr
}

func (s *stubIdentity) Login(_ context.Context, _, _ string) (*domain.Customer, string, string, error) {
	return s.customer, "access", "refresh", s.loginErr
}

func (s *stubIdentity) LookupByToken(_ context.Context, _ string) (*domain.Customer, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.customer, nil
}

func (s *stubIdentity) AccessTTLSeconds() int { return 3600 }

type stubCartSvc struct {
	items []domain.LineItem
	err   error
}

func (s *stubCartSvc) Items(_ context.Context, _ string) []domain.LineItem { return s.items }

func (s *stubCartSvc) Add(_ context.Context, _ string, _ int64, _ string, _ int) ([]domain.LineItem, error) {
	return s.items, s.err
}

func (s *stubCartSvc) UpdateQuantity(_ context.Context, _ string, _ int64, _ string, _ int) ([]domain.LineItem, error) {
	return s.items, s.err
}

func (s *stubCartSvc) Remove(_ context.Context, _ string, _ int64, _ string) ([]domain.LineItem, error) {
	return s.items, s.err
}

func (s *stubCartSvc) Clear(_ context.Context, _ string) error { return s.err }

type stubCheckoutSvc struct {
	order *domain.Order
	err   error

	gotKey      string
	gotCustomer *domain.Customer
}

func (s *stubCheckoutSvc) Submit(_ context.Context, customer *domain.Customer, key string) (*domain.Order, error) {
	s.gotCustomer = customer
	s.gotKey = key
	return s.order, s.err
}

type stubProductRepo struct {
	products []domain.Product
	err      error
}

func (s *stubProductRepo) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, domain.ErrNotFound
}

type stubOrderRepo struct {
	orders []domain.Order
	err    error
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ string, orderID string) (*domain.Order, error) {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return &s.orders[i], nil
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

func testDeps() Deps {
	return Deps{
		Identity: &stubIdentity{customer: &domain.Customer{ID: "cust-1", Email: "somchai@example.com"}},
		Cart:     &stubCartSvc{},
		Checkout: &stubCheckoutSvc{},
		Products: &stubProductRepo{},
		Orders:   &stubOrderRepo{},
	}
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return buildRouter(logDiscard(), nil, deps)
}

func TestAuthRequired_MissingToken(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	deps := testDeps()
	deps.Identity = &stubIdentity{lookupErr: identity.ErrInvalidToken}
	router := testRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	if got := bearerToken("Bearer abc"); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := bearerToken("bearer abc"); got != "abc" {
		t.Fatalf("expected case-insensitive match, got %q", got)
	}
	if got := bearerToken("Basic abc"); got != "" {
		t.Fatalf("expected empty for non-bearer header, got %q", got)
	}
	if got := bearerToken(""); got != "" {
		t.Fatalf("expected empty for empty header, got %q", got)
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
