package httpserver

import (
	"net/http"

	checkoutsvc "storefront-orders/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		res, err := svc.Checkout(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"sessionUrl": res.SessionURL,
			"orderId":    res.Order.ID,
		})
	}
}
