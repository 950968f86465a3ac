package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	"storefront-api/internal/money"
)

type productResponse struct {
	domain.Product
	Price string `json:"price"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{Product: p, Price: money.Format(p.PriceCents)}
}

func handleListProducts(repo ProductRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load products"})
			return
		}
		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		c.JSON(http.StatusOK, gin.H{"products": out})
	}
}

func handleGetProduct(repo ProductRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}
		product, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load product"})
			return
		}
		c.JSON(http.StatusOK, toProductResponse(*product))
	}
}
