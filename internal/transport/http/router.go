package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkotelnikov/webshop/internal/handlers"
	authmw "github.com/mkotelnikov/webshop/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	Auth            *authmw.Middleware
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/forgot-password", d.AuthHandler.ForgotPassword)
	v1.POST("/auth/reset-password", d.AuthHandler.ResetPassword)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.SearchHandler.Search)

	admin := v1.Group("/admin", d.Auth.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	user := v1.Group("", d.Auth.RequireUser)
	user.GET("/cart", d.CartHandler.GetCart)
	user.POST("/cart", d.CartHandler.AddToCart)
	user.PUT("/cart/:product_id", d.CartHandler.UpdateQuantity)
	user.DELETE("/cart/:product_id", d.CartHandler.RemoveFromCart)
	user.POST("/checkout", d.CheckoutHandler.Checkout)
	user.GET("/orders", d.OrderHandler.GetOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)
}
