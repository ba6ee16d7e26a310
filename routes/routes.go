package routes

import (
	"net/http"

	"brewhouse/activity"
	"brewhouse/admin"
	"brewhouse/auth"
	"brewhouse/cart"
	"brewhouse/catalog"
	"brewhouse/middleware"
	"brewhouse/orders"
	"brewhouse/ratelim"
	"brewhouse/reports"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, api *auth.API, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(api.Register))
	router.POST("/api/auth/login", rl.Limit(api.Login))
}

func AddCatalogRoutes(router *httprouter.Router, api *catalog.API) {
	router.GET("/api/products", api.ListProducts)
	router.GET("/api/products/:productid", api.GetProduct)

	router.POST("/api/products", middleware.Authenticate(middleware.RequireAdmin(api.CreateProduct)))
	router.PUT("/api/products/:productid", middleware.Authenticate(middleware.RequireAdmin(api.UpdateProduct)))
	router.DELETE("/api/products/:productid", middleware.Authenticate(middleware.RequireAdmin(api.DeleteProduct)))
	router.POST("/api/products/:productid/images", middleware.Authenticate(middleware.RequireAdmin(api.UploadImage)))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler) {
	router.POST("/api/cart", middleware.Authenticate(h.AddItem))
	router.GET("/api/cart", middleware.Authenticate(h.GetCart))
	router.PUT("/api/cart/:productid", middleware.Authenticate(h.UpdateQuantity))
	router.DELETE("/api/cart", middleware.Authenticate(h.Clear))
	router.DELETE("/api/cart/:productid", middleware.Authenticate(h.RemoveItem))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(h.Checkout)))
	router.GET("/api/my-orders", middleware.Authenticate(h.MyOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(h.GetOrder))
	router.GET("/api/orders/:orderid/receipt", middleware.Authenticate(h.Receipt))
	router.PUT("/api/orders/:orderid/pay", middleware.Authenticate(h.MarkPaid))

	router.PUT("/api/orders/:orderid/deliver", middleware.Authenticate(middleware.RequireAdmin(h.MarkDelivered)))
	router.PUT("/api/orders/:orderid/status", middleware.Authenticate(middleware.RequireAdmin(h.SetStatus)))
	router.PUT("/api/orders/:orderid/payment-status", middleware.Authenticate(middleware.RequireAdmin(h.SetPaymentStatus)))
	router.DELETE("/api/orders/:orderid", middleware.Authenticate(middleware.RequireAdmin(h.DeleteOrder)))
}

func AddActivityRoutes(router *httprouter.Router, hub *activity.Hub) {
	router.GET("/api/admin/activities", middleware.Authenticate(middleware.RequireAdmin(activity.GetActivities)))
	router.GET("/api/admin/activity/stream", middleware.Authenticate(middleware.RequireAdmin(hub.Stream)))
}

func AddReportRoutes(router *httprouter.Router, h *reports.Handler) {
	router.GET("/api/admin/reports", middleware.Authenticate(middleware.RequireAdmin(h.SalesReport)))
	router.GET("/api/admin/dashboard-stats", middleware.Authenticate(middleware.RequireAdmin(h.Dashboard)))
}

func AddAdminRoutes(router *httprouter.Router, api *admin.API, h *orders.Handler) {
	router.GET("/api/admin/users", middleware.Authenticate(middleware.RequireAdmin(api.ListUsers)))
	router.PUT("/api/admin/users/:userid/verify", middleware.Authenticate(middleware.RequireAdmin(api.VerifyUser)))
	router.PUT("/api/admin/users/:userid/role", middleware.Authenticate(middleware.RequireAdmin(api.UpdateUserRole)))
	router.PUT("/api/admin/users/:userid", middleware.Authenticate(middleware.RequireAdmin(api.UpdateUser)))
	router.DELETE("/api/admin/users/:userid", middleware.Authenticate(middleware.RequireAdmin(api.DeleteUser)))

	router.GET("/api/admin/orders", middleware.Authenticate(middleware.RequireAdmin(h.AllOrders)))
}
