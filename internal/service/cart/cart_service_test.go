package cart

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *testutil.MemStore
	svc   *Service
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

func (s *CartServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = testutil.NewMemStore()

	// 店家1: 阿斯匹靈跟維他命C，店家2: 口罩
	s.store.SeedProduct(model.Product{
		ProductID: "p-aspirin", StoreID: 1, Name: "Aspirin",
		Price: decimal.RequireFromString("10.00"), Stock: 5,
	})
	s.store.SeedProduct(model.Product{
		ProductID: "p-vitc", StoreID: 1, Name: "Vitamin C",
		Price: decimal.RequireFromString("4.50"), Stock: 2,
	})
	s.store.SeedProduct(model.Product{
		ProductID: "p-mask", StoreID: 2, Name: "Face Mask",
		Price: decimal.RequireFromString("2.00"), Stock: 10,
	})

	s.svc = NewService(s.store)
}

func (s *CartServiceTestSuite) addAspirin(qty int) *model.Cart {
	cart, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-aspirin", Quantity: qty},
	}, false)
	require.NoError(s.T(), err)
	return cart
}

func (s *CartServiceTestSuite) TestAddCreatesCartLazily() {
	// 加入前沒有購物車
	_, err := s.svc.GetCart(s.ctx, 10)
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))

	cart := s.addAspirin(2)

	require.Equal(s.T(), uint(10), cart.UserID)
	require.Equal(s.T(), uint(1), cart.StoreID)
	require.Len(s.T(), cart.Items, 1)
	require.Equal(s.T(), 2, cart.Items[0].Quantity)
	require.True(s.T(), cart.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	require.True(s.T(), cart.TotalPrice.Equal(decimal.RequireFromString("20.00")))

	// 落地後再讀一次要一致
	got, err := s.svc.GetCart(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Items, 1)
	require.Equal(s.T(), uint(1), got.StoreID)
}

func (s *CartServiceTestSuite) TestMergeIncrementsAndAppends() {
	s.addAspirin(2)

	// 已存在的line加量，新的append到尾端
	cart, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-aspirin", Quantity: 1},
		{ProductID: "p-vitc", Quantity: 1},
	}, false)
	require.NoError(s.T(), err)

	require.Len(s.T(), cart.Items, 2)
	require.Equal(s.T(), "p-aspirin", cart.Items[0].ProductID)
	require.Equal(s.T(), 3, cart.Items[0].Quantity)
	require.Equal(s.T(), 0, cart.Items[0].Position)
	require.Equal(s.T(), "p-vitc", cart.Items[1].ProductID)
	require.Equal(s.T(), 1, cart.Items[1].Position)

	// 30.00 + 4.50
	require.True(s.T(), cart.TotalPrice.Equal(decimal.RequireFromString("34.50")))
}

func (s *CartServiceTestSuite) TestStoreConflict() {
	s.addAspirin(1)

	// 跨店加入要被擋下並帶確認資訊
	_, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-mask", Quantity: 1},
	}, false)
	require.Equal(s.T(), apperr.KindStoreConflict, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(s.T(), err, &appErr)
	require.Equal(s.T(), uint(1), appErr.Data["existing_store_id"])
	require.Equal(s.T(), uint(2), appErr.Data["requested_store_id"])
	require.Equal(s.T(), true, appErr.Data["requires_confirmation"])

	// 原本的購物車不動
	cart, err := s.svc.GetCart(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Equal(s.T(), uint(1), cart.StoreID)
	require.Len(s.T(), cart.Items, 1)
	require.Equal(s.T(), "p-aspirin", cart.Items[0].ProductID)
}

func (s *CartServiceTestSuite) TestForceClearSwitchesStore() {
	s.addAspirin(2)

	// caller確認後清空舊車改綁新店
	cart, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-mask", Quantity: 3},
	}, true)
	require.NoError(s.T(), err)

	require.Equal(s.T(), uint(2), cart.StoreID)
	require.Len(s.T(), cart.Items, 1)
	require.Equal(s.T(), "p-mask", cart.Items[0].ProductID)
	require.True(s.T(), cart.TotalPrice.Equal(decimal.RequireFromString("6.00")))
}

func (s *CartServiceTestSuite) TestInsufficientStockAllOrNothing() {
	s.addAspirin(2)

	// 合併後p-vitc超量，整批合併不落地，連合法的p-aspirin加量也不生效
	_, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-aspirin", Quantity: 1},
		{ProductID: "p-vitc", Quantity: 3},
	}, false)
	require.Equal(s.T(), apperr.KindInsufficientStock, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(s.T(), err, &appErr)
	require.Equal(s.T(), "p-vitc", appErr.Data["product_id"])
	require.Equal(s.T(), 2, appErr.Data["available"])
	require.Equal(s.T(), 3, appErr.Data["requested"])

	cart, err := s.svc.GetCart(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), cart.Items, 1)
	require.Equal(s.T(), 2, cart.Items[0].Quantity, "失敗的合併不能留下部分變更")
}

func (s *CartServiceTestSuite) TestMergeSeesCommittedStock() {
	// 合併交易內的商品查詢要讀到最新已提交的庫存
	_, err := s.store.DeductProductStock(s.ctx, "p-aspirin", 4)
	require.NoError(s.T(), err)

	_, err = s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-aspirin", Quantity: 2},
	}, false)
	require.Equal(s.T(), apperr.KindInsufficientStock, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(s.T(), err, &appErr)
	require.Equal(s.T(), 1, appErr.Data["available"])

	cart, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-aspirin", Quantity: 1},
	}, false)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, cart.Items[0].Quantity)
}

func (s *CartServiceTestSuite) TestMergeRefreshesCatalogPrice() {
	s.addAspirin(1)

	// 購物車是live view，合併時刷新成當下目錄價
	s.store.SeedProduct(model.Product{
		ProductID: "p-aspirin", StoreID: 1, Name: "Aspirin",
		Price: decimal.RequireFromString("12.00"), Stock: 5,
	})

	cart, err := s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-vitc", Quantity: 1},
	}, false)
	require.NoError(s.T(), err)

	require.True(s.T(), cart.Items[0].Price.Equal(decimal.RequireFromString("12.00")),
		"已存在的line也要刷新價格")
	require.True(s.T(), cart.TotalPrice.Equal(decimal.RequireFromString("16.50")))
}

func (s *CartServiceTestSuite) TestAddValidation() {
	_, err := s.svc.AddOrMergeItems(s.ctx, 10, nil, false)
	require.Equal(s.T(), apperr.KindValidation, apperr.KindOf(err))

	_, err = s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-aspirin", Quantity: 0},
	}, false)
	require.Equal(s.T(), apperr.KindValidation, apperr.KindOf(err))

	_, err = s.svc.AddOrMergeItems(s.ctx, 10, []model.LineRequest{
		{ProductID: "p-ghost", Quantity: 1},
	}, false)
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))
}

func (s *CartServiceTestSuite) TestRemoveOrDecrement() {
	s.addAspirin(3)

	// quantity小於現有數量 → 遞減
	qty := 1
	cart, err := s.svc.RemoveOrDecrement(s.ctx, 10, "p-aspirin", &qty)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, cart.Items[0].Quantity)

	// 不帶quantity → 整條移除，空車時解除店家綁定
	cart, err = s.svc.RemoveOrDecrement(s.ctx, 10, "p-aspirin", nil)
	require.NoError(s.T(), err)
	require.True(s.T(), cart.IsEmpty())
	require.Equal(s.T(), uint(0), cart.StoreID)
	require.True(s.T(), cart.TotalPrice.Equal(decimal.Zero))
}

func (s *CartServiceTestSuite) TestRemoveEqualQuantityRemovesLine() {
	s.addAspirin(2)

	// quantity等於現有數量視同整條移除
	qty := 2
	cart, err := s.svc.RemoveOrDecrement(s.ctx, 10, "p-aspirin", &qty)
	require.NoError(s.T(), err)
	require.True(s.T(), cart.IsEmpty())
}

func (s *CartServiceTestSuite) TestRemoveMissingProduct() {
	s.addAspirin(1)

	_, err := s.svc.RemoveOrDecrement(s.ctx, 10, "p-vitc", nil)
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))

	_, err = s.svc.RemoveOrDecrement(s.ctx, 99, "p-aspirin", nil)
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))
}

func (s *CartServiceTestSuite) TestClear() {
	s.addAspirin(1)

	require.NoError(s.T(), s.svc.Clear(s.ctx, 10))

	_, err := s.svc.GetCart(s.ctx, 10)
	require.Equal(s.T(), apperr.KindNotFound, apperr.KindOf(err))

	// 清空不存在的購物車是no-op
	require.NoError(s.T(), s.svc.Clear(s.ctx, 10))
}
