package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/medmarket/internal/api"
	"github.com/RoyceAzure/lab/medmarket/internal/api/dto"
	m "github.com/RoyceAzure/lab/medmarket/internal/api/middleware"
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/service/cart"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService cart.IService
}

func NewCartHandler(cartService cart.IService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

// GetCart 取得自己的購物車
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	if actor.Role != model.RoleClient {
		api.ErrorJSON(w, apperr.New(apperr.KindForbidden, "only clients have carts"))
		return
	}

	result, err := h.cartService.GetCart(r.Context(), actor.UserID)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, http.StatusOK, dto.ConvertCart(result))
}

// AddItems 合併品項進購物車，跨店需帶force_clear確認
func (h *CartHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	if actor.Role != model.RoleClient {
		api.ErrorJSON(w, apperr.New(apperr.KindForbidden, "only clients have carts"))
		return
	}

	var req dto.CartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	result, err := h.cartService.AddOrMergeItems(r.Context(), actor.UserID, dto.ConvertLines(req.Items), req.ForceClear)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, http.StatusOK, dto.ConvertCart(result))
}

// RemoveItem 刪除整條line，帶?quantity=n則只遞減
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := m.ActorFromContext(r.Context())
	if actor.Role != model.RoleClient {
		api.ErrorJSON(w, apperr.New(apperr.KindForbidden, "only clients have carts"))
		return
	}

	productID := chi.URLParam(r, "productID")
	var quantity *int
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil || q <= 0 {
			api.ErrorJSON(w, apperr.New(apperr.KindValidation, "quantity must be a positive integer"))
			return
		}
		quantity = &q
	}

	result, err := h.cartService.RemoveOrDecrement(r.Context(), actor.UserID, productID, quantity)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, http.StatusOK, dto.ConvertCart(result))
}
