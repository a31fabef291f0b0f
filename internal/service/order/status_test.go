package order

import (
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/gateway"
	"github.com/stretchr/testify/require"
)

func (s *OrderServiceTestSuite) placeCardOrder(items ...model.LineRequest) *model.Order {
	result, err := s.svc.PlaceOrder(s.ctx, s.client, PlaceOrderParams{
		Items:         items,
		PaymentMethod: model.PaymentMethodCard,
	})
	require.NoError(s.T(), err)
	return result.Order
}

func (s *OrderServiceTestSuite) TestChangeStatus_ClientCancelsPendingAndStockReturns() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 2})
	require.Equal(s.T(), 3, s.productStock("p-aspirin"))
	s.snapshots.Deleted = nil

	updated, err := s.svc.ChangeStatus(s.ctx, s.client, order.OrderID, model.OrderStatusCancelled)
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.OrderStatusCancelled, updated.Status)

	// 補償: 庫存回到下單前，商品快照跟著作廢
	require.Equal(s.T(), 5, s.productStock("p-aspirin"))
	require.Contains(s.T(), s.snapshots.Deleted, "p-aspirin")

	// client跟店長都收到狀態變更通知
	clientNotes := s.notifier.SentTo(10)
	require.NotEmpty(s.T(), clientNotes)
	last := clientNotes[len(clientNotes)-1]
	require.Equal(s.T(), model.NotificationTypeOrderUpdate, last.Type)
	require.True(s.T(), last.SendEmail)
	require.Equal(s.T(), model.OrderStatusPending, last.Data["old_status"])
	require.Equal(s.T(), model.OrderStatusCancelled, last.Data["new_status"])
	require.NotEmpty(s.T(), s.notifier.SentTo(20))
}

func (s *OrderServiceTestSuite) TestChangeStatus_PharmacistShipsOwnStoreOrder() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	updated, err := s.svc.ChangeStatus(s.ctx, s.pharmacist, order.OrderID, model.OrderStatusShipping)
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.OrderStatusShipping, updated.Status)

	// shipping不是取消，庫存不動
	require.Equal(s.T(), 4, s.productStock("p-aspirin"))
}

func (s *OrderServiceTestSuite) TestChangeStatus_PharmacistOtherStoreForbidden() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	otherPharmacist := model.Actor{UserID: 21, Role: model.RolePharmacist, StoreID: 2}
	_, err := s.svc.ChangeStatus(s.ctx, otherPharmacist, order.OrderID, model.OrderStatusShipping)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))

	got, err := s.store.GetOrderByID(s.ctx, order.OrderID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.OrderStatusPending, got.Status, "被拒絕的請求不能留下變更")
}

func (s *OrderServiceTestSuite) TestChangeStatus_ClientRestrictions() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	// client不能推進出貨
	_, err := s.svc.ChangeStatus(s.ctx, s.client, order.OrderID, model.OrderStatusShipping)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))

	// 別的client不能取消
	stranger := model.Actor{UserID: 11, Role: model.RoleClient}
	_, err = s.svc.ChangeStatus(s.ctx, stranger, order.OrderID, model.OrderStatusCancelled)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestChangeStatus_ClientCannotCancelAfterPaid() {
	s.gateway.Intent = &gateway.Intent{ID: "pi_1", ClientSecret: "sec", Status: gateway.IntentStatusSucceeded}
	order := s.placeCardOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})
	require.Equal(s.T(), model.OrderStatusPaid, order.Status)

	_, err := s.svc.ChangeStatus(s.ctx, s.client, order.OrderID, model.OrderStatusCancelled)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))

	// admin還是可以取消paid訂單，庫存照樣補回
	_, err = s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, model.OrderStatusCancelled)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 5, s.productStock("p-aspirin"))
}

func (s *OrderServiceTestSuite) TestChangeStatus_PaidRequiresCard() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	// cash訂單不能直接標paid
	_, err := s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, model.OrderStatusPaid)
	require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err))

	// card訂單可以，但不能paid兩次
	cardOrder := s.placeCardOrder(model.LineRequest{ProductID: "p-vitc", Quantity: 1})
	_, err = s.svc.ChangeStatus(s.ctx, s.admin, cardOrder.OrderID, model.OrderStatusPaid)
	require.NoError(s.T(), err)
	_, err = s.svc.ChangeStatus(s.ctx, s.admin, cardOrder.OrderID, model.OrderStatusPaid)
	require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestChangeStatus_OnlyPendingOrPaidMayTransition() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	_, err := s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, model.OrderStatusShipping)
	require.NoError(s.T(), err)

	// shipping之後generic操作一律拒絕
	for _, target := range []string{
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
		model.OrderStatusPaid,
	} {
		_, err = s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, target)
		require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err),
			"shipping -> %s 應該被擋下", target)
	}
}

func (s *OrderServiceTestSuite) TestChangeStatus_InvalidTarget() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	_, err := s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, "refunded")
	require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err))

	// 不能轉回pending
	_, err = s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, model.OrderStatusPending)
	require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestChangeStatus_CancelledIsTerminal() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 2})

	_, err := s.svc.ChangeStatus(s.ctx, s.client, order.OrderID, model.OrderStatusCancelled)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 5, s.productStock("p-aspirin"))

	// 再取消一次要被擋下，庫存不能補兩次
	_, err = s.svc.ChangeStatus(s.ctx, s.admin, order.OrderID, model.OrderStatusCancelled)
	require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err))
	require.Equal(s.T(), 5, s.productStock("p-aspirin"))
}

func (s *OrderServiceTestSuite) TestChangeStatus_DeliveredIsTerminal() {
	s.store.SeedOrder(model.Order{
		OrderID: "o-done", UserID: 10, StoreID: 1,
		Status:        model.OrderStatusDelivered,
		PaymentMethod: model.PaymentMethodCash,
		Items: []model.OrderItem{
			{OrderID: "o-done", ProductID: "p-aspirin", Quantity: 1},
		},
	})

	// delivered為終態，連admin也不能再動
	_, err := s.svc.ChangeStatus(s.ctx, s.admin, "o-done", model.OrderStatusCancelled)
	require.Equal(s.T(), apperr.KindInvalidTransition, apperr.KindOf(err))
	require.ErrorContains(s.T(), err, "terminal")
	require.Equal(s.T(), 5, s.productStock("p-aspirin"), "終態訂單不能觸發庫存補償")
}

func (s *OrderServiceTestSuite) TestChangeStatus_OrderNotFound() {
	_, err := s.svc.ChangeStatus(s.ctx, s.admin, "no-such-order", model.OrderStatusCancelled)
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))
}
