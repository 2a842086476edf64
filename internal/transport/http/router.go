package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/handlers"
	authmw "github.com/aidosk/shopapi/internal/middleware/auth"
	"github.com/aidosk/shopapi/internal/tokens"
)

type Deps struct {
	DB             *gorm.DB
	Signer         *tokens.Signer
	AuthHandler    *handlers.AuthHandler
	OrderHandler   *handlers.OrderHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Use(authmw.Identify(d.DB, d.Signer))

	login := e.Group("/login")
	login.POST("/create-user", d.AuthHandler.CreateUser)
	login.POST("/me", d.AuthHandler.Me)

	auth := e.Group("/auth")
	auth.POST("/token", d.AuthHandler.Token)
	auth.POST("/refresh-token", d.AuthHandler.RefreshToken)

	order := e.Group("/order", authmw.RequireToken)
	order.POST("/create", d.OrderHandler.CreateOrder)
	order.GET("/orders/:order_id", d.OrderHandler.GetOrder)

	users := e.Group("/users", authmw.RequireToken)
	users.GET("/users-with-orders/:user_id", d.OrderHandler.GetUserWithOrders)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, authmw.RequireToken)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, authmw.RequireToken)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, authmw.RequireToken)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Search)
	}
}
