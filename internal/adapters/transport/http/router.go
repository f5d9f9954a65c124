package http

import (
	"time"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/middleware"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	AllowedOrigins   []string
	AllowCredentials bool
	RateLimitRPS     int
	RateLimitBurst   int
	MaxUploadBytes   int64
	Registry         *prometheus.Registry
}

// NewRouter mounts every route on a fresh engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	if opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = opts.MaxUploadBytes
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(h.log))
	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Handler())
	}
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept",
				"Authorization",
				"X-Requested-With",
			},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: opts.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.RateLimitRPS > 0 {
		router.Use(middleware.NewHTTPRateLimitPerIP(opts.RateLimitRPS, opts.RateLimitBurst, 10_000, time.Hour,
			func(c *gin.Context) {
				handleError(c, customErrors.ErrTooManyRequests)
			}))
	}

	router.GET("/health", h.Health)
	if opts.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	auth := h.RequireAuth()
	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/signUp", h.Register)
	users.POST("/signIn", h.Login)
	users.POST("/logout", auth, h.Logout)
	users.POST("/refreshToken", h.Refresh)
	users.POST("/forgotPassword", h.ForgotPassword)
	users.POST("/verifyOtp", h.VerifyOtp)
	users.POST("/resetPassword", h.ResetPassword)
	users.GET("/me", auth, h.Me)
	users.PATCH("/me", auth, h.UpdateProfile)

	addresses := users.Group("/addresses", auth)
	addresses.GET("", h.ListAddresses)
	addresses.POST("", h.AddAddress)
	addresses.GET("/:id", h.GetAddress)
	addresses.PATCH("/:id", h.UpdateAddress)
	addresses.DELETE("/:id", h.DeleteAddress)

	categories := v1.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.POST("", auth, h.AddCategory)
	categories.PATCH("/:id", auth, h.UpdateCategory)
	categories.DELETE("/:id", auth, h.DeleteCategory)

	products := v1.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("", auth, h.AddProduct)
	products.PATCH("/:id", auth, h.UpdateProduct)
	products.DELETE("/:id", auth, h.DeleteProduct)

	return router
}
