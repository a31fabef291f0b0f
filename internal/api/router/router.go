package router

import (
	"github.com/RoyceAzure/lab/medmarket/api"
	m "github.com/RoyceAzure/lab/medmarket/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.ActorMiddleware)
	r.Use(m.LoggerMiddleware(logger))

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		// webhook不走actor驗證，靠簽章
		r.Post("/payments/webhook", server.WebhookHandler.HandleGatewayEvent)

		r.Get("/products/{productID}", server.CatalogHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(m.RequireActor)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.GetCart)
				r.Post("/items", server.CartHandler.AddItems)
				r.Delete("/items/{productID}", server.CartHandler.RemoveItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", server.OrderHandler.CreateOrder)
				r.Get("/", server.OrderHandler.ListOrders)
				r.Get("/{orderID}", server.OrderHandler.GetOrder)
				r.Post("/{orderID}/status", server.OrderHandler.UpdateStatus)
			})

			r.Get("/payments", server.OrderHandler.ListPayments)
		})
	})

	return r
}
