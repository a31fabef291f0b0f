package cart

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IService interface {
	AddOrMergeItems(ctx context.Context, userID uint, items []model.LineRequest, forceClear bool) (*model.Cart, error)
	RemoveOrDecrement(ctx context.Context, userID uint, productID string, quantity *int) (*model.Cart, error)
	GetCart(ctx context.Context, userID uint) (*model.Cart, error)
	Clear(ctx context.Context, userID uint) error
}

// Service 購物車聚合
// 購物車是live view不是凍結快照，合併時會刷新成當下目錄價
// 合併途中的商品查詢一律走同一個tx，和下單扣庫存看到的是同一份資料
type Service struct {
	store db.Store
}

func NewService(store db.Store) *Service {
	if store == nil {
		panic("store cannot be nil")
	}
	return &Service{store: store}
}

// AddOrMergeItems 合併品項進購物車，all-or-nothing
// 跨店加入時回StoreConflict，除非forceClear=true先清空舊車
// 合併後每條line都重新對當下庫存驗證，任何一條不足整次合併不落地
func (s *Service) AddOrMergeItems(ctx context.Context, userID uint, items []model.LineRequest, forceClear bool) (*model.Cart, error) {
	if len(items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "at least one item is required")
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, apperr.New(apperr.KindValidation, "each item must have product_id and a positive quantity")
		}
	}

	var result *model.Cart
	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		cart, err := tx.GetCartByUserID(ctx, userID)
		if errors.Is(err, db.ErrCartNotFound) {
			// 第一次加入才lazy建立
			cart = &model.Cart{CartID: uuid.New(), UserID: userID}
		} else if err != nil {
			return err
		}

		// 解析這批items屬於哪間店
		first, err := getProduct(ctx, tx, items[0].ProductID)
		if err != nil {
			return err
		}
		requestedStore := first.StoreID

		if !cart.IsEmpty() && cart.StoreID != requestedStore {
			if !forceClear {
				return apperr.StoreConflict(cart.StoreID, requestedStore)
			}
			// caller已確認，清空舊車再合併
			cart.Items = nil
			cart.TotalPrice = decimal.Zero
		}
		cart.StoreID = requestedStore

		merged := mergeLines(cart, items)

		// 合併後整車重新驗證，順便刷新目錄價
		for i := range merged {
			product, err := getProduct(ctx, tx, merged[i].ProductID)
			if err != nil {
				return err
			}
			if product.StoreID != requestedStore {
				return apperr.Newf(apperr.KindValidation,
					"product %s does not exist in store %d", merged[i].ProductID, requestedStore)
			}
			if merged[i].Quantity > int(product.Stock) {
				return apperr.InsufficientStock(merged[i].ProductID, int(product.Stock), merged[i].Quantity)
			}
			merged[i].Price = product.Price
			merged[i].CartID = cart.CartID
			merged[i].Position = i
		}

		cart.Items = merged
		cart.TotalPrice = cart.Subtotal().Add(cart.ShippingCost).Add(cart.Tax)

		if err := tx.UpsertCart(ctx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveOrDecrement quantity小於現有數量就遞減，否則整條移除
func (s *Service) RemoveOrDecrement(ctx context.Context, userID uint, productID string, quantity *int) (*model.Cart, error) {
	if productID == "" {
		return nil, apperr.New(apperr.KindValidation, "product_id is required")
	}

	var result *model.Cart
	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		cart, err := tx.GetCartByUserID(ctx, userID)
		if errors.Is(err, db.ErrCartNotFound) {
			return apperr.New(apperr.KindNotFound, "cart not found")
		}
		if err != nil {
			return err
		}

		kept := make([]model.CartItem, 0, len(cart.Items))
		found := false
		for _, item := range cart.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
				continue
			}
			found = true
			if quantity != nil && *quantity > 0 && *quantity < item.Quantity {
				item.Quantity -= *quantity
				kept = append(kept, item)
			}
		}
		if !found {
			return apperr.Newf(apperr.KindNotFound, "product %s is not in the cart", productID)
		}

		for i := range kept {
			kept[i].Position = i
		}
		cart.Items = kept
		if cart.IsEmpty() {
			cart.StoreID = 0
		}
		cart.TotalPrice = cart.Subtotal().Add(cart.ShippingCost).Add(cart.Tax)

		if err := tx.UpsertCart(ctx, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) GetCart(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if errors.Is(err, db.ErrCartNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "cart not found")
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, userID uint) error {
	return s.store.DeleteCartByUserID(ctx, userID)
}

func getProduct(ctx context.Context, tx db.Store, productID string) (*model.Product, error) {
	product, err := tx.GetProductByID(ctx, productID)
	if errors.Is(err, db.ErrProductNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "product %s does not exist", productID)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// mergeLines 已存在的line加量，新的append到尾端保留顯示順序
func mergeLines(cart *model.Cart, incoming []model.LineRequest) []model.CartItem {
	merged := make([]model.CartItem, len(cart.Items))
	copy(merged, cart.Items)

	for _, req := range incoming {
		found := false
		for i := range merged {
			if merged[i].ProductID == req.ProductID {
				merged[i].Quantity += req.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, model.CartItem{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			})
		}
	}
	return merged
}

var _ IService = (*Service)(nil)
