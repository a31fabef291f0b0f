package order

import (
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func (s *OrderServiceTestSuite) TestHandlePaymentSucceeded() {
	order := s.placeCardOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})
	require.Equal(s.T(), model.OrderStatusPending, order.Status)

	require.NoError(s.T(), s.svc.HandlePaymentSucceeded(s.ctx, order.OrderID))

	got, err := s.store.GetOrderByID(s.ctx, order.OrderID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.OrderStatusPaid, got.Status)

	payment, err := s.store.GetPaymentByOrderID(s.ctx, order.OrderID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.PaymentStatusCompleted, payment.Status)

	// client收到付款成功通知
	notes := s.notifier.SentTo(10)
	require.Len(s.T(), notes, 1)
	require.Equal(s.T(), model.NotificationTypeSystem, notes[0].Type)
	require.Equal(s.T(), order.OrderID, notes[0].Data["order_id"])
}

func (s *OrderServiceTestSuite) TestHandlePaymentSucceeded_IdempotentReplay() {
	order := s.placeCardOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	require.NoError(s.T(), s.svc.HandlePaymentSucceeded(s.ctx, order.OrderID))
	notesBefore := len(s.notifier.SentTo(10))

	// gateway重複投遞同一個事件: no-op成功且不重發通知
	require.NoError(s.T(), s.svc.HandlePaymentSucceeded(s.ctx, order.OrderID))
	require.NoError(s.T(), s.svc.HandlePaymentSucceeded(s.ctx, order.OrderID))

	got, err := s.store.GetOrderByID(s.ctx, order.OrderID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.OrderStatusPaid, got.Status)
	require.Equal(s.T(), notesBefore, len(s.notifier.SentTo(10)), "replay不能重發通知")
}

func (s *OrderServiceTestSuite) TestHandlePaymentSucceeded_UnknownOrder() {
	err := s.svc.HandlePaymentSucceeded(s.ctx, "no-such-order")
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))
}

