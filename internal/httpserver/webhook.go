package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"storefront-orders/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// stripeWebhookHandler receives asynchronous payment confirmations. The
// session id is the join key back to the order; redelivered events are
// no-ops at the service layer.
func stripeWebhookHandler(svc orderService, secret string, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
			return
		}

		event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			logger.Printf("webhook: signature verification failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}

		switch event.Type {
		case "checkout.session.completed":
			handleSession(c, event, logger, svc.ConfirmPayment)
		case "checkout.session.expired", "checkout.session.async_payment_failed":
			handleSession(c, event, logger, svc.FailPayment)
		default:
			logger.Printf("webhook: ignoring event type=%s id=%s", event.Type, event.ID)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		}
	}
}

func handleSession(c *gin.Context, event stripe.Event, logger *log.Logger, apply func(ctx context.Context, sessionID string) (*domain.Order, error)) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		logger.Printf("webhook: unmarshal session event id=%s: %v", event.ID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	if _, err := apply(c.Request.Context(), sess.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown session: acknowledge so the provider stops retrying.
			logger.Printf("webhook: no order for session=%s event=%s", sess.ID, event.ID)
			c.JSON(http.StatusOK, gin.H{"status": "unmatched"})
			return
		}
		logger.Printf("webhook: apply event=%s session=%s: %v", event.ID, sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
