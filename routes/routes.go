// routes/routes.go
package routes

import (
	"net/http"

	"go-storefront/controllers"
	"go-storefront/middleware"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers the router dispatches to
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Config   *controllers.ConfigController
}

func auth(h http.HandlerFunc) http.Handler {
	return middleware.Auth(h)
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.Auth(middleware.Admin(h))
}

// RegisterRoutes sets up all the routes for the application under /api.
// Literal segments such as /mine and /seed are registered before /{id}.
func RegisterRoutes(router *mux.Router, c Controllers) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", controllers.Health).Methods(http.MethodGet)
	api.HandleFunc("/config/paypal", c.Config.GetPaypalClientID).Methods(http.MethodGet)

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("/seed", c.Users.SeedUsers).Methods(http.MethodGet)
	users.HandleFunc("/signin", c.Users.Signin).Methods(http.MethodPost)
	users.HandleFunc("/register", c.Users.Register).Methods(http.MethodPost)
	users.Handle("/profile", auth(c.Users.UpdateProfile)).Methods(http.MethodPut)
	users.HandleFunc("/{id}", c.Users.GetUser).Methods(http.MethodGet)

	// Product routes
	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", c.Products.GetProducts).Methods(http.MethodGet)
	products.HandleFunc("/", c.Products.GetProducts).Methods(http.MethodGet)
	products.HandleFunc("/seed", c.Products.SeedProducts).Methods(http.MethodGet)
	products.HandleFunc("/{id}", c.Products.GetProductByID).Methods(http.MethodGet)
	products.Handle("", admin(c.Products.CreateProduct)).Methods(http.MethodPost)
	products.Handle("/", admin(c.Products.CreateProduct)).Methods(http.MethodPost)
	products.Handle("/{id}", admin(c.Products.UpdateProduct)).Methods(http.MethodPut)
	products.Handle("/{id}", admin(c.Products.DeleteProduct)).Methods(http.MethodDelete)

	// Order routes
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Handle("/mine", auth(c.Orders.GetMyOrders)).Methods(http.MethodGet)
	orders.Handle("", admin(c.Orders.GetOrders)).Methods(http.MethodGet)
	orders.Handle("/", admin(c.Orders.GetOrders)).Methods(http.MethodGet)
	orders.Handle("", auth(c.Orders.CreateOrder)).Methods(http.MethodPost)
	orders.Handle("/", auth(c.Orders.CreateOrder)).Methods(http.MethodPost)
	orders.Handle("/{id}", auth(c.Orders.GetOrderByID)).Methods(http.MethodGet)
	orders.Handle("/{id}/pay", auth(c.Orders.PayOrder)).Methods(http.MethodPut)
	orders.Handle("/{id}/deliver", admin(c.Orders.DeliverOrder)).Methods(http.MethodPut)
}

// NewRouter builds the router with the request middleware chain applied
func NewRouter(c Controllers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Logger, middleware.Recover)
	RegisterRoutes(router, c)
	return router
}
