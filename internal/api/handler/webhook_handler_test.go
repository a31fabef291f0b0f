package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/constants"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/gateway"
	"github.com/RoyceAzure/lab/medmarket/internal/service/order"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

// stubOrderService 只記錄webhook呼叫，其餘操作不會被handler用到
type stubOrderService struct {
	succeededOrderIDs []string
	err               error
}

func (s *stubOrderService) HandlePaymentSucceeded(ctx context.Context, orderID string) error {
	if s.err != nil {
		return s.err
	}
	s.succeededOrderIDs = append(s.succeededOrderIDs, orderID)
	return nil
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, actor model.Actor, params order.PlaceOrderParams) (*order.PlaceOrderResult, error) {
	panic("not expected")
}

func (s *stubOrderService) ChangeStatus(ctx context.Context, actor model.Actor, orderID, newStatus string) (*model.Order, error) {
	panic("not expected")
}

func (s *stubOrderService) GetOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	panic("not expected")
}

func (s *stubOrderService) ListOrders(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Order, error) {
	panic("not expected")
}

func (s *stubOrderService) ListPayments(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Payment, error) {
	panic("not expected")
}

var _ order.IService = (*stubOrderService)(nil)

func postWebhook(h *WebhookHandler, payload []byte, sigHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	if sigHeader != "" {
		req.Header.Set(constants.HeaderGatewaySignature, sigHeader)
	}
	rec := httptest.NewRecorder()
	h.HandleGatewayEvent(rec, req)
	return rec
}

func TestWebhookHandler_PaymentSucceeded(t *testing.T) {
	svc := &stubOrderService{}
	h := NewWebhookHandler(svc, testSecret)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"metadata":{"order_id":"ord-1"}}}}`)
	rec := postWebhook(h, payload, gateway.SignPayload(payload, testSecret, time.Now()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"ord-1"}, svc.succeededOrderIDs)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	svc := &stubOrderService{}
	h := NewWebhookHandler(svc, testSecret)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"metadata":{"order_id":"ord-1"}}}}`)

	// 用錯的secret簽
	rec := postWebhook(h, payload, gateway.SignPayload(payload, "whsec_wrong", time.Now()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, svc.succeededOrderIDs, "驗簽失敗不能觸發reconcile")

	// 沒帶簽章header
	rec = postWebhook(h, payload, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_MissingOrderID(t *testing.T) {
	svc := &stubOrderService{}
	h := NewWebhookHandler(svc, testSecret)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"metadata":{}}}}`)
	rec := postWebhook(h, payload, gateway.SignPayload(payload, testSecret, time.Now()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_UnknownEventAcked(t *testing.T) {
	svc := &stubOrderService{}
	h := NewWebhookHandler(svc, testSecret)

	// 不認識的事件直接ack，避免gateway重試風暴
	payload := []byte(`{"id":"evt_2","type":"payment_intent.created","data":{"object":{"metadata":{"order_id":"ord-1"}}}}`)
	rec := postWebhook(h, payload, gateway.SignPayload(payload, testSecret, time.Now()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, svc.succeededOrderIDs)
}

func TestWebhookHandler_UnknownOrderReturns404(t *testing.T) {
	svc := &stubOrderService{err: apperr.New(apperr.KindNotFound, "order does not exist")}
	h := NewWebhookHandler(svc, testSecret)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"metadata":{"order_id":"ord-x"}}}}`)
	rec := postWebhook(h, payload, gateway.SignPayload(payload, testSecret, time.Now()))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
