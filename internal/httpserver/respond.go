package httpserver

import (
	"errors"
	"net/http"

	"storefront-orders/internal/domain"
	checkoutsvc "storefront-orders/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses. Illegal transitions
// and fulfillment conflicts are 409 so callers can tell them apart from
// retryable persistence failures (500).
func respondError(c *gin.Context, err error) {
	var verr *checkoutsvc.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrAlreadyFulfilled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkoutsvc.ErrPaymentSession):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
