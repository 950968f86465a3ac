package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	"storefront-api/internal/money"
	"storefront-api/internal/service/cart"
)

// cartResponse is recomputed from the stored list on every read and
// after every mutation, so the badge count and total the storefront
// shows always match what is persisted.
type cartResponse struct {
	Items      []domain.LineItem `json:"items"`
	Count      int               `json:"count"`
	TotalCents int64             `json:"totalCents"`
	Total      string            `json:"total"`
}

func toCartResponse(items []domain.LineItem) cartResponse {
	if items == nil {
		items = []domain.LineItem{}
	}
	total := cart.Total(items)
	return cartResponse{
		Items:      items,
		Count:      cart.Count(items),
		TotalCents: total,
		Total:      money.Format(total),
	}
}

type addItemRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Color     string `json:"color"`
	// Pointer so an explicit zero (meaning "remove") survives binding.
	Quantity *int `json:"quantity" binding:"required"`
}

func handleGetCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := svc.Items(c.Request.Context(), currentCustomer(c).ID)
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func handleAddItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid cart payload"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		items, err := svc.Add(c.Request.Context(), currentCustomer(c).ID, req.ProductID, req.Color, req.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func handleUpdateItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid cart payload"})
			return
		}
		items, err := svc.UpdateQuantity(c.Request.Context(), currentCustomer(c).ID, req.ProductID, req.Color, *req.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func handleRemoveItem(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}
		items, err := svc.Remove(c.Request.Context(), currentCustomer(c).ID, productID, c.Query("color"))
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func handleClearCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentCustomer(c).ID); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(nil))
	}
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Please sign in to continue"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "item not in cart"})
	case errors.Is(err, cart.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "could not update cart, please try again"})
	case err.Error() == "product not found":
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	}
}
