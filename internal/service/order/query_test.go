package order

import (
	"time"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func (s *OrderServiceTestSuite) TestListOrders_RoleScoped() {
	first := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	// 另一個client在店家2下單
	lat, lng := 25.0330, 121.5654
	s.store.SeedUser(model.User{
		UserID: 11, UserName: "cindy", UserEmail: "cindy@test.io", Role: model.RoleClient,
		DefaultLatitude: &lat, DefaultLongitude: &lng,
	})
	otherClient := model.Actor{UserID: 11, Role: model.RoleClient}
	_, err := s.svc.PlaceOrder(s.ctx, otherClient, PlaceOrderParams{
		Items:         []model.LineRequest{{ProductID: "p-mask", Quantity: 1}},
		PaymentMethod: model.PaymentMethodCash,
	})
	require.NoError(s.T(), err)

	// client只看得到自己的
	orders, err := s.svc.ListOrders(s.ctx, s.client, 10, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 1)
	require.Equal(s.T(), first.OrderID, orders[0].OrderID)

	// pharmacist只看得到自己店的
	orders, err = s.svc.ListOrders(s.ctx, s.pharmacist, 10, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 1)
	require.Equal(s.T(), uint(1), orders[0].StoreID)

	// admin全看
	orders, err = s.svc.ListOrders(s.ctx, s.admin, 10, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 2)

	// 未知角色拒絕
	_, err = s.svc.ListOrders(s.ctx, model.Actor{UserID: 5, Role: "auditor"}, 10, 0)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestListOrders_Pagination() {
	for i := 0; i < 3; i++ {
		s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})
	}

	orders, err := s.svc.ListOrders(s.ctx, s.admin, 2, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 2)

	orders, err = s.svc.ListOrders(s.ctx, s.admin, 2, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 1)

	// limit<=0 落回預設頁大小
	orders, err = s.svc.ListOrders(s.ctx, s.admin, 0, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 3)
}

func (s *OrderServiceTestSuite) TestGetOrder_Ownership() {
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	got, err := s.svc.GetOrder(s.ctx, s.client, order.OrderID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), order.OrderID, got.OrderID)
	require.Len(s.T(), got.Items, 1)

	_, err = s.svc.GetOrder(s.ctx, s.pharmacist, order.OrderID)
	require.NoError(s.T(), err)

	// 別的client跟別店的pharmacist都看不到
	stranger := model.Actor{UserID: 11, Role: model.RoleClient}
	_, err = s.svc.GetOrder(s.ctx, stranger, order.OrderID)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))

	otherPharmacist := model.Actor{UserID: 21, Role: model.RolePharmacist, StoreID: 2}
	_, err = s.svc.GetOrder(s.ctx, otherPharmacist, order.OrderID)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))

	_, err = s.svc.GetOrder(s.ctx, s.admin, "no-such-order")
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))
}

func (s *OrderServiceTestSuite) TestListPayments_AdminOnly() {
	// 昨天的舊payment，列表要排在新單後面
	s.store.SeedPayment(model.Payment{
		OrderID: "o-yesterday", UserID: 10,
		Method: model.PaymentMethodCash, Status: model.PaymentStatusPending,
		PaymentDate: time.Now().UTC().Add(-24 * time.Hour),
	})
	order := s.placeCashOrder(model.LineRequest{ProductID: "p-aspirin", Quantity: 1})

	payments, err := s.svc.ListPayments(s.ctx, s.admin, 10, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), payments, 2)

	// 最新的排最前面
	require.Equal(s.T(), order.OrderID, payments[0].OrderID)
	require.Equal(s.T(), "o-yesterday", payments[1].OrderID)

	_, err = s.svc.ListPayments(s.ctx, s.client, 10, 0)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))

	_, err = s.svc.ListPayments(s.ctx, s.pharmacist, 10, 0)
	require.Equal(s.T(), apperr.KindForbidden, apperr.KindOf(err))
}
