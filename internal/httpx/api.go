package httpx

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/catalog"
	"github.com/runtiger2024/buy1688-sub000/internal/orders"
	"github.com/runtiger2024/buy1688-sub000/internal/settings"
	"github.com/runtiger2024/buy1688-sub000/internal/users"
	"github.com/runtiger2024/buy1688-sub000/internal/warehouses"
)

// API holds the services behind the HTTP surface.
type API struct {
	Orders     *orders.Service
	Catalog    *catalog.Service
	Warehouses *warehouses.Service
	Settings   *settings.Service
	Users      *users.Service
	Sessions   auth.Sessions
	Log        *slog.Logger
}

func (a *API) Register(r chi.Router) {
	authn := auth.Authenticate(a.Sessions)
	staff := auth.RequireRole(auth.RoleAdmin, auth.RoleOperator)
	admin := auth.RequireRole(auth.RoleAdmin)
	customer := auth.RequireRole(auth.RoleCustomer)

	// public
	r.Post("/auth/register", a.register)
	r.Post("/auth/login", a.login)
	r.Post("/auth/logout", a.logout)
	r.Get("/settings", a.getSettings)
	r.Get("/categories", a.listCategories)
	r.Get("/warehouses", a.listActiveWarehouses)
	r.Get("/orders/share/{token}", a.sharedOrder)
	r.With(auth.Optional(a.Sessions)).Get("/products", a.listProducts)
	r.With(auth.Optional(a.Sessions)).Get("/products/{id}", a.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/auth/me", a.me)

		r.Group(func(r chi.Router) {
			r.Use(customer)
			r.Post("/orders", a.createStandardOrder)
			r.Post("/orders/assist", a.createAssistOrder)
			r.Get("/orders/my", a.myOrders)
			r.Post("/orders/{id}/payment-proof", a.submitPaymentProof)
		})

		r.Group(func(r chi.Router) {
			r.Use(staff)
			r.Post("/categories", a.createCategory)
			r.Put("/categories/{id}", a.updateCategory)
			r.Delete("/categories/{id}", a.deleteCategory)
			r.Post("/products", a.createProduct)
			r.Put("/products/{id}", a.updateProduct)
			r.Put("/products/{id}/archive", a.archiveProduct)
			r.Put("/products/{id}/unarchive", a.unarchiveProduct)
			r.Get("/orders/operator", a.operatorOrders)
			r.Get("/orders/{id}", a.getOrder)
			r.Put("/orders/{id}", a.updateOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Put("/settings", a.updateSettings)
			r.Get("/warehouses/all", a.listAllWarehouses)
			r.Post("/warehouses", a.createWarehouse)
			r.Put("/warehouses/{id}", a.updateWarehouse)
			r.Delete("/warehouses/{id}", a.deleteWarehouse)
			r.Get("/users", a.listUsers)
			r.Post("/users", a.createUser)
			r.Put("/users/{id}", a.updateUser)
			r.Get("/orders/admin", a.adminOrders)
		})
	})
}
