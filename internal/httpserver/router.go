package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	"storefront-api/internal/service/identity"
)

// IdentityService supplies the opaque user identifier everything else
// keys on.
type IdentityService interface {
	Signup(ctx context.Context, in identity.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

type CartService interface {
	Items(ctx context.Context, userID string) []domain.LineItem
	Add(ctx context.Context, userID string, productID int64, color string, quantity int) ([]domain.LineItem, error)
	UpdateQuantity(ctx context.Context, userID string, productID int64, color string, quantity int) ([]domain.LineItem, error)
	Remove(ctx context.Context, userID string, productID int64, color string) ([]domain.LineItem, error)
	Clear(ctx context.Context, userID string) error
}

type CheckoutService interface {
	Submit(ctx context.Context, customer *domain.Customer, idempotencyKey string) (*domain.Order, error)
}

type ProductRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type OrderRepo interface {
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// Deps carries the services the router needs.
type Deps struct {
	Identity IdentityService
	Cart     CartService
	Checkout CheckoutService
	Products ProductRepo
	Orders   OrderRepo

	// AllowedOrigins for the storefront SPA; empty allows all (dev).
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Idempotency-Key")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/signup", handleSignup(deps.Identity))
	router.POST("/auth/login", handleLogin(deps.Identity))

	router.GET("/products", handleListProducts(deps.Products))
	router.GET("/products/:id", handleGetProduct(deps.Products))

	authed := router.Group("/", authRequired(deps.Identity))
	{
		authed.GET("/me", handleMe())

		authed.GET("/cart", handleGetCart(deps.Cart))
		authed.POST("/cart/items", handleAddItem(deps.Cart))
		authed.PATCH("/cart/items", handleUpdateItem(deps.Cart))
		authed.DELETE("/cart/items/:productID", handleRemoveItem(deps.Cart))
		authed.DELETE("/cart", handleClearCart(deps.Cart))

		authed.POST("/checkout", handleCheckout(deps.Checkout))

		authed.GET("/orders", handleListOrders(deps.Orders))
		authed.GET("/orders/:id", handleGetOrder(deps.Orders))
	}

	return router
}
