package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	"storefront-api/internal/money"
)

type checkoutRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

type orderResponse struct {
	Order domain.Order `json:"order"`
	Total string       `json:"total"`
}

// handleCheckout runs one checkout attempt. The storefront disables the
// checkout button while this request is in flight and sends the same
// idempotency key on retry, so a double click or a second tab cannot
// create a second order.
func handleCheckout(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid checkout payload"})
				return
			}
		}
		key := req.IdempotencyKey
		if key == "" {
			key = c.GetHeader("Idempotency-Key")
		}

		order, err := svc.Submit(c.Request.Context(), currentCustomer(c), key)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Please sign in to continue"})
			case errors.Is(err, domain.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"message": "your cart is empty"})
			default:
				// Cart is untouched; the user may retry.
				c.JSON(http.StatusBadGateway, gin.H{"message": "checkout failed, please try again"})
			}
			return
		}
		c.JSON(http.StatusCreated, orderResponse{Order: *order, Total: money.Format(order.TotalCents)})
	}
}

func handleListOrders(repo OrderRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repo.ListByUser(c.Request.Context(), currentCustomer(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load orders"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func handleGetOrder(repo OrderRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := repo.GetByID(c.Request.Context(), currentCustomer(c).ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load order"})
			return
		}
		c.JSON(http.StatusOK, orderResponse{Order: *order, Total: money.Format(order.TotalCents)})
	}
}
