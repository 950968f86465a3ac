package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	"storefront-api/internal/service/identity"
)

const customerCtxKey = "currentCustomer"

// authRequired resolves the bearer token to a customer. Cart and
// checkout operations are rejected here when no identity is active,
// with a message the storefront renders as a sign-in prompt.
func authRequired(svc IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please sign in to continue"})
			return
		}
		customer, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please sign in to continue"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
			return
		}
		c.Set(customerCtxKey, customer)
		c.Next()
	}
}

func currentCustomer(c *gin.Context) *domain.Customer {
	v, ok := c.Get(customerCtxKey)
	if !ok {
		return nil
	}
	customer, _ := v.(*domain.Customer)
	return customer
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

type signupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Language  string `json:"language"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func handleSignup(svc IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid signup payload"})
			return
		}
		customer, err := svc.Signup(c.Request.Context(), identity.SignupInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Language:  req.Language,
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"message": "account already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"customer": customer})
	}
}

func handleLogin(svc IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid login payload"})
			return
		}
		customer, access, refresh, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"customer":     customer,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    svc.AccessTTLSeconds(),
		})
	}
}

func handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customer": currentCustomer(c)})
	}
}
