package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/session"
)

// Options carries the router settings that do not belong to the handlers.
type Options struct {
	// AllowedOrigins for credentialed CORS. Empty reflects any origin.
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Nil trusts none, so rate
	// limits key on the peer address.
	TrustedProxies []string
	LoginLimiter   *middleware.RateLimiter
	Logger         logrus.FieldLogger
}

// CORSMiddleware allows the storefront front end to send the session cookie.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cfg)
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		opts.Logger.WithError(err).Error("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(opts.Logger))
	router.Use(CORSMiddleware(opts.AllowedOrigins))
	router.Use(metrics.Middleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.Use(session.Middleware(h.Sessions))
	{
		api.GET("/health", h.Health)

		// --- Auth Routes (Public) ---
		authRoutes := api.Group("/auth")
		{
			limit := func(c *gin.Context) { c.Next() }
			if opts.LoginLimiter != nil {
				limit = opts.LoginLimiter.Handler()
			}
			authRoutes.POST("/register", limit, h.Register)
			authRoutes.POST("/login", limit, h.Login)
			authRoutes.POST("/logout", h.Logout)
			authRoutes.GET("/me", h.Me)
		}

		// --- Public Catalog Routes ---
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/categories/public", h.ListPublicCategories)
		api.GET("/hero-images", h.ListHeroImages)

		// --- Guest-or-User Routes (session decides) ---
		api.GET("/favorites", h.GetFavorites)
		api.POST("/favorites/:productId", h.AddFavorite)
		api.DELETE("/favorites/:productId", h.RemoveFavorite)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/:productId", h.AddToCart)
		api.PUT("/cart/:productId", h.SetCartQuantity)
		api.DELETE("/cart/:productId", h.RemoveFromCart)
		api.POST("/cart/guest/checkout", h.GuestCheckout)

		// --- Protected Routes (Login Required) ---
		auth := api.Group("")
		auth.Use(middleware.RequireAuth())
		{
			auth.PUT("/account/username", h.UpdateUsername)
			auth.PUT("/account/password", h.UpdatePassword)

			auth.GET("/profile", h.GetProfile)
			auth.PUT("/profile", h.UpdateProfile)

			auth.GET("/orders", h.ListOrders)
			auth.GET("/orders/:id", h.GetOrder)
			auth.POST("/orders", h.CreateOrder)
			auth.POST("/orders/checkout", h.Checkout)
		}

		// --- Admin Routes ---
		admin := api.Group("")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin(h.DB))
		{
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.GET("/categories", h.ListCategories)
			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.POST("/hero-images", h.CreateHeroImage)
			admin.PUT("/hero-images/:id", h.UpdateHeroImage)

			admin.GET("/admin/orders", h.ListAdminOrders)
			admin.GET("/admin/orders/:id", h.GetAdminOrder)
			admin.DELETE("/admin/orders/:id", h.DeleteAdminOrder)
			admin.GET("/admin/users", h.ListUsers)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
