package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type trackRequest struct {
	OrderID int64  `json:"orderId"`
	Email   string `json:"email"`
}

// trackOrderHandler is the customer lookup. Order id and email must both
// match; an id alone never resolves, so order numbers cannot be enumerated.
func trackOrderHandler(svc trackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.OrderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required", "field": "orderId"})
			return
		}
		email := strings.TrimSpace(req.Email)
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required", "field": "email"})
			return
		}

		order, events, err := svc.Lookup(c.Request.Context(), req.OrderID, email)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":  order,
			"events": events,
		})
	}
}
