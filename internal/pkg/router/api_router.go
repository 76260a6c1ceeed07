package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/hanapbahay/hanapbahay/app/controllers"
	"github.com/hanapbahay/hanapbahay/internal/pkg/cache"
	"github.com/hanapbahay/hanapbahay/internal/pkg/env"
	"github.com/hanapbahay/hanapbahay/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Public routes
	v1.Get("/plans", controllers.HandleListPlans)
	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/api-key", controllers.HandleIssueAPIKey)

	// Authenticated routes
	auth := v1.Use(middleware.APIKeyAuthMiddleware())

	users := auth.Group("/users")
	users.Get("/me", controllers.HandleGetUserAccount)
	users.Get("/statistics", controllers.HandleGetUserStatistics)
	users.Post("/change-password", controllers.HandleChangePassword)

	subs := auth.Group("/subscriptions")
	subs.Post("/subscribe", controllers.HandleSubscribe)
	subs.Post("/submit-reference", controllers.HandleSubmitReference)
	subs.Post("/cancel", controllers.HandleCancelSubscription)
	subs.Get("/current", controllers.HandleGetCurrentSubscription)
	subs.Get("/payments", controllers.HandleListPayments)
	subs.Get("/payments/:id", controllers.HandleGetPayment)

	// Admin routes
	admin := auth.Group("/admin", middleware.RequireAdmin())
	admin.Get("/payments/pending", controllers.HandleAdminListPendingPayments)
	admin.Post("/payments/verify", controllers.HandleAdminResolvePayment)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances. Connection details come from the shared cache client.
func newLimiterStorage() *redisstorage.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1, // cache uses DB 0
		Reset:    false,
	})
}
