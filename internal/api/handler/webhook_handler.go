package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/RoyceAzure/lab/medmarket/internal/api"
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/constants"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/gateway"
	"github.com/RoyceAzure/lab/medmarket/internal/service/order"
)

type WebhookHandler struct {
	orderService  order.IService
	webhookSecret string
}

func NewWebhookHandler(orderService order.IService, webhookSecret string) *WebhookHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &WebhookHandler{orderService: orderService, webhookSecret: webhookSecret}
}

// HandleGatewayEvent gateway webhook入口
// 驗簽失敗回400；訂單找不到回404(gateway視為terminal不再重送)
// 成功與冪等no-op都回2xx，避免gateway無限重試
func (h *WebhookHandler) HandleGatewayEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid payload"))
		return
	}

	sigHeader := r.Header.Get(constants.HeaderGatewaySignature)
	event, err := gateway.VerifyWebhookSignature(payload, sigHeader, h.webhookSecret)
	if errors.Is(err, gateway.ErrInvalidSignature) {
		api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid signature"))
		return
	}
	if err != nil {
		api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid payload"))
		return
	}

	if event.Type == gateway.EventPaymentSucceeded {
		orderID := event.Metadata["order_id"]
		if orderID == "" {
			api.ErrorJSON(w, apperr.New(apperr.KindValidation, "event metadata missing order_id"))
			return
		}
		if err := h.orderService.HandlePaymentSucceeded(r.Context(), orderID); err != nil {
			api.ErrorJSON(w, err)
			return
		}
	}
	// 其他事件類型目前不處理，直接ack

	api.SuccessJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
