package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/medmarket/internal/api"
	"github.com/RoyceAzure/lab/medmarket/internal/api/dto"
	m "github.com/RoyceAzure/lab/medmarket/internal/api/middleware"
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/service/order"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService order.IService
}

func NewOrderHandler(orderService order.IService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// CreateOrder 下單，成功回201
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())

	var req dto.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	result, err := h.orderService.PlaceOrder(r.Context(), actor, order.PlaceOrderParams{
		ClientID:        req.ClientID,
		Items:           dto.ConvertLines(req.Items),
		StoreID:         req.StoreID,
		ShippingAddress: req.ShippingAddress,
		ShippingLat:     req.ShippingLat,
		ShippingLng:     req.ShippingLng,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	api.SuccessJSON(w, http.StatusCreated, dto.PlaceOrderResponse{
		Order:        dto.ConvertOrder(result.Order),
		ClientSecret: result.ClientSecret,
	})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")

	result, err := h.orderService.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, http.StatusOK, dto.ConvertOrder(result))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.orderService.ListOrders(r.Context(), actor, limit, offset)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	result := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, dto.ConvertOrder(&orders[i]))
	}
	api.SuccessJSON(w, http.StatusOK, result)
}

// UpdateStatus 統一的狀態變更入口，所有角色走同一條驗證路徑
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")

	var req dto.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	result, err := h.orderService.ChangeStatus(r.Context(), actor, orderID, req.Status)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, http.StatusOK, dto.ConvertOrder(result))
}

func (h *OrderHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.orderService.ListPayments(r.Context(), actor, limit, offset)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}

	result := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		result = append(result, dto.ConvertPayment(&payments[i]))
	}
	api.SuccessJSON(w, http.StatusOK, result)
}
