package server

import (
	"context"
	"net/http"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/config"
	"campus-merch-store/internal/handler"
	authmw "campus-merch-store/internal/middleware"
	"campus-merch-store/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Services struct {
	Catalog service.CatalogService
	Cart    service.CartService
	Order   service.OrderService
	Profile service.ProfileService
}

type Server struct {
	echo           *echo.Echo
	cfg            *config.Config
	log            *zap.Logger
	tokens         *auth.TokenParser
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	profileHandler *handler.ProfileHandler
}

func NewServer(cfg *config.Config, log *zap.Logger, tokens *auth.TokenParser, svc Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if id, ok := c.Get("user_id").(string); ok {
				fields = append(fields, zap.String("user_id", id))
			}
			if v.Error != nil {
				log.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.HTTP.BodyLimit))

	s := &Server{
		echo:           e,
		cfg:            cfg,
		log:            log,
		tokens:         tokens,
		catalogHandler: handler.NewCatalogHandler(svc.Catalog),
		cartHandler:    handler.NewCartHandler(svc.Cart),
		orderHandler:   handler.NewOrderHandler(svc.Order),
		profileHandler: handler.NewProfileHandler(svc.Profile),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.Static("/storage", s.cfg.Storage.Root)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/categories", s.catalogHandler.ListCategories)
	api.GET("/shops", s.catalogHandler.ListShops)
	api.GET("/shops/:id", s.catalogHandler.GetShop)
	api.GET("/shops/:id/merchandises", s.catalogHandler.ShopMerchandises)
	api.GET("/merchandises", s.catalogHandler.SearchMerchandises)
	api.GET("/merchandises/:id", s.catalogHandler.GetMerchandise)
	api.GET("/colleges", s.profileHandler.ListColleges)
	api.GET("/colleges/:id/programs", s.profileHandler.ListPrograms)

	requireUser := authmw.AuthMiddleware(s.tokens, s.log)

	// -------- cart --------
	api.GET("/cart", s.cartHandler.ListCart, requireUser)
	api.POST("/cart", s.cartHandler.AddToCart, requireUser)
	api.PATCH("/cart/:id/variant", s.cartHandler.SetVariant, requireUser)
	api.PATCH("/cart/:id/size", s.cartHandler.SetSize, requireUser)
	api.PATCH("/cart/:id/quantity", s.cartHandler.SetQuantity, requireUser)
	api.DELETE("/cart/:id", s.cartHandler.Remove, requireUser)

	// -------- orders --------
	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.cfg.RateLimit.OrdersPerSecond)))
	api.POST("/cart/checkout", s.orderHandler.SubmitCartOrders, requireUser, limiter)
	api.POST("/cart/:id/checkout", s.orderHandler.SubmitCartOrder, requireUser, limiter)
	api.POST("/orders", s.orderHandler.SubmitDirect, requireUser, limiter)

	// -------- profile --------
	api.GET("/profile", s.profileHandler.GetProfile, requireUser)
	api.PUT("/profile", s.profileHandler.SaveProfile, requireUser)
	api.POST("/memberships", s.profileHandler.RequestMembership, requireUser)
	api.GET("/managed-shops", s.profileHandler.ManagedShops, requireUser)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
