package api

import "github.com/RoyceAzure/lab/medmarket/internal/api/handler"

type Server struct {
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	WebhookHandler *handler.WebhookHandler
	CatalogHandler *handler.CatalogHandler
}

func NewServer(
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	webhookHandler *handler.WebhookHandler,
	catalogHandler *handler.CatalogHandler,
) *Server {
	return &Server{
		CartHandler:    cartHandler,
		OrderHandler:   orderHandler,
		WebhookHandler: webhookHandler,
		CatalogHandler: catalogHandler,
	}
}
