package server

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// 全ハンドラーをまとめてDIするための箱
type Handlers struct {
	Auth            *handler.AuthHandler
	Product         *handler.ProductHandler
	Collection      *handler.CollectionHandler
	Review          *handler.ReviewHandler
	Cart            *handler.CartHandler
	Order           *handler.OrderHandler
	Customer        *handler.CustomerHandler
	AdminProduct    *handler.AdminProductHandler
	AdminCollection *handler.AdminCollectionHandler
	AdminAudit      *handler.AdminAuditHandler
}

// New はechoを組み立ててルートを登録する。
func New(cfg config.Config, gormDB *gorm.DB, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.Metrics(metrics.NewServerMetrics("api")))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/healthz", healthz(gormDB))

	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Collection.RegisterRoutes(e)
	h.Review.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e)
	h.Order.RegisterRoutes(e, cfg)
	h.Customer.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminCollection.RegisterRoutes(e, cfg)
	h.AdminAudit.RegisterRoutes(e, cfg)

	return e
}

// DBに届かないときは503
func healthz(gormDB *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "ng"})
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "ng"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, port string) error {
	addr := ":" + port
	if len(port) > 0 && port[0] == ':' {
		addr = port
	}
	return e.Start(addr)
}
