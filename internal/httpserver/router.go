package httpserver

import (
	"context"
	"log"
	"strings"

	"storefront-orders/internal/carriers"
	"storefront-orders/internal/domain"
	checkoutsvc "storefront-orders/internal/service/checkout"
	fulfillmentsvc "storefront-orders/internal/service/fulfillment"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type checkoutService interface {
	Checkout(ctx context.Context, in checkoutsvc.Input) (*checkoutsvc.Result, error)
}

type orderService interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*domain.Order, error)
	FailPayment(ctx context.Context, sessionID string) (*domain.Order, error)
	SetOrderStatus(ctx context.Context, id int64, to domain.OrderStatus) (*domain.Order, error)
	SetPaymentStatus(ctx context.Context, id int64, to domain.PaymentStatus) (*domain.Order, error)
}

type fulfillmentService interface {
	Fulfill(ctx context.Context, orderID int64, carrierID, trackingNumber string) (*domain.Order, error)
	FulfillBulk(ctx context.Context, orderIDs []int64, carrierID string) []fulfillmentsvc.Result
}

type trackingService interface {
	Lookup(ctx context.Context, orderID int64, email string) (*domain.Order, []domain.TrackingEvent, error)
}

// Deps carries the services and configuration the routes need.
type Deps struct {
	CheckoutSvc         checkoutService
	OrderSvc            orderService
	FulfillmentSvc      fulfillmentService
	TrackingSvc         trackingService
	Rates               *carriers.Table
	StripeWebhookSecret string
	AdminToken          string
	AllowedOrigins      string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if deps.AllowedOrigins != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = splitOrigins(deps.AllowedOrigins)
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Admin-Token")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
		api.POST("/orders/track", trackOrderHandler(deps.TrackingSvc))
		api.POST("/webhooks/stripe", stripeWebhookHandler(deps.OrderSvc, deps.StripeWebhookSecret, logger))
	}

	admin := router.Group("/admin", adminAuth(deps.AdminToken, logger))
	{
		admin.GET("/orders", listOrdersHandler(deps.OrderSvc))
		admin.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
		admin.POST("/orders/:id/fulfill", fulfillHandler(deps.FulfillmentSvc))
		admin.POST("/orders/fulfill", bulkFulfillHandler(deps.FulfillmentSvc))
		admin.POST("/orders/:id/status", setStatusHandler(deps.OrderSvc))
		admin.GET("/carriers", listCarriersHandler(deps.Rates))
	}

	return router
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
