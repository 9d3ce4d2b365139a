package router

import (
	"net/http"

	"dealer-kart/internal/handler"
	"dealer-kart/internal/middleware"
	"dealer-kart/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Account     *handler.AccountHandler
	Product     *handler.ProductHandler
	Cart        *handler.CartHandler
	Order       *handler.OrderHandler
	DealerOrder *handler.DealerOrderHandler
	Bill        *handler.BillHandler
	Contact     *handler.ContactHandler
	Realtime    http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens middleware.TokenParser, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", handler.Health)
	if h.Realtime != nil {
		r.Method(http.MethodGet, "/ws", h.Realtime)
	}

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/customers/register", h.Account.RegisterCustomer)
		r.Post("/customers/login", h.Account.LoginCustomer)
		r.Post("/dealers/register", h.Account.RegisterDealer)
		r.Post("/dealers/login", h.Account.LoginDealer)
		r.Get("/products", h.Product.List)
		r.Get("/products/{id}", h.Product.GetByID)
		r.Post("/contact", h.Contact.CreateContact)
		r.Post("/test-submissions", h.Contact.CreateSubmission)
		r.With(middleware.OptionalAuth(tokens, logger)).Post("/orders", h.Order.Create)

		// Customer
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, logger))
			r.Use(middleware.RequireRole(model.RoleCustomer, logger))

			r.Get("/customers/me", h.Account.CustomerProfile)
			r.Put("/customers/me", h.Account.UpdateCustomerProfile)

			r.Get("/cart", h.Cart.Get)
			r.Delete("/cart", h.Cart.Clear)
			r.Post("/cart/items", h.Cart.AddItem)
			r.Put("/cart/items/{productId}", h.Cart.UpdateItem)
			r.Delete("/cart/items/{productId}", h.Cart.RemoveItem)

			r.Get("/orders", h.Order.List)
			r.Get("/orders/{id}", h.Order.GetByID)

			r.Get("/bills", h.Bill.ListMine)
			r.Get("/bills/{id}", h.Bill.GetMine)
		})

		// Dealer
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, logger))
			r.Use(middleware.RequireRole(model.RoleDealer, logger))

			r.Get("/dealers/me", h.Account.DealerProfile)
			r.Put("/dealers/me", h.Account.UpdateDealerProfile)

			r.Post("/products", h.Product.Create)
			r.Put("/products/{id}", h.Product.Update)
			r.Delete("/products/{id}", h.Product.Delete)
			r.Patch("/products/{id}/stock", h.Product.UpdateStock)

			r.Route("/admin/dealer", func(r chi.Router) {
				r.Get("/products", h.Product.ListMine)

				r.Get("/orders", h.DealerOrder.List)
				r.Delete("/orders", h.DealerOrder.Clear)
				r.Put("/orders/bulk-status", h.DealerOrder.BulkUpdateStatus)
				r.Get("/orders/{id}", h.DealerOrder.Get)
				r.Put("/orders/{id}/status", h.DealerOrder.UpdateStatus)
				r.Post("/orders/{id}/bill", h.DealerOrder.GenerateBill)

				r.Get("/bills", h.Bill.ListForDealer)
				r.Get("/bills/{id}", h.Bill.GetForDealer)

				r.Get("/contacts", h.Contact.ListContacts)
				r.Get("/test-submissions", h.Contact.ListSubmissions)
			})
		})
	})

	return r
}
