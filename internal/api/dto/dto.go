package dto

import (
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
)

type LineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartAddRequest struct {
	Items      []LineDTO `json:"items"`
	ForceClear bool      `json:"force_clear"`
}

type OrderCreateRequest struct {
	Items           []LineDTO `json:"items"`
	StoreID         uint      `json:"store_id,omitempty"`
	ClientID        uint      `json:"client_id,omitempty"` // admin代下單用
	ShippingAddress string    `json:"shipping_address"`
	ShippingLat     *float64  `json:"shipping_lat,omitempty"`
	ShippingLng     *float64  `json:"shipping_lng,omitempty"`
	PaymentMethod   string    `json:"payment_method"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type CartItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type CartResponse struct {
	CartID       string             `json:"cart_id"`
	StoreID      uint               `json:"store_id"`
	Items        []CartItemResponse `json:"items"`
	Tax          string             `json:"tax"`
	ShippingCost string             `json:"shipping_cost"`
	TotalPrice   string             `json:"total_price"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type OrderResponse struct {
	OrderID         string              `json:"order_id"`
	ClientID        uint                `json:"client_id"`
	StoreID         uint                `json:"store_id"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress string              `json:"shipping_address"`
	PaymentMethod   string              `json:"payment_method"`
	Status          string              `json:"status"`
	Subtotal        string              `json:"subtotal"`
	ShippingCost    string              `json:"shipping_cost"`
	Tax             string              `json:"tax"`
	TotalWithFees   string              `json:"total_with_fees"`
	OrderDate       string              `json:"order_date"`
}

type PlaceOrderResponse struct {
	Order        OrderResponse `json:"order"`
	ClientSecret string        `json:"client_secret,omitempty"`
}

type PaymentResponse struct {
	PaymentID   uint   `json:"payment_id"`
	OrderID     string `json:"order_id"`
	ClientID    uint   `json:"client_id"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	PaymentDate string `json:"payment_date"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ConvertCart(cart *model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		})
	}
	return CartResponse{
		CartID:       cart.CartID.String(),
		StoreID:      cart.StoreID,
		Items:        items,
		Tax:          cart.Tax.StringFixed(2),
		ShippingCost: cart.ShippingCost.StringFixed(2),
		TotalPrice:   cart.TotalPrice.StringFixed(2),
	}
}

func ConvertOrder(order *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		})
	}
	return OrderResponse{
		OrderID:         order.OrderID,
		ClientID:        order.UserID,
		StoreID:         order.StoreID,
		Items:           items,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		Status:          order.Status,
		Subtotal:        order.Subtotal.StringFixed(2),
		ShippingCost:    order.ShippingCost.StringFixed(2),
		Tax:             order.Tax.StringFixed(2),
		TotalWithFees:   order.TotalWithFees.StringFixed(2),
		OrderDate:       order.OrderDate.Format(timeLayout),
	}
}

func ConvertPayment(payment *model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   payment.PaymentID,
		OrderID:     payment.OrderID,
		ClientID:    payment.UserID,
		Amount:      payment.Amount.StringFixed(2),
		Method:      payment.Method,
		Status:      payment.Status,
		PaymentDate: payment.PaymentDate.Format(timeLayout),
	}
}

func ConvertLines(items []LineDTO) []model.LineRequest {
	lines := make([]model.LineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
