package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"gorm.io/gorm"
)

// ErrCartNotFound 購物車不存在
var ErrCartNotFound = errors.New("cart not found")

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

func (s *CartRepo) GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.position ASC")
		}).
		First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertCart 覆寫整台購物車
// 先刪舊items再寫新items，包在交易內確保不會留下違反單店invariant的中間態
func (s *CartRepo) UpsertCart(ctx context.Context, cart *model.Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := cart.Items
		cart.Items = nil
		if err := tx.Save(cart).Error; err != nil {
			return err
		}
		cart.Items = items

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *CartRepo) DeleteCartByUserID(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		err := tx.First(&cart, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&cart).Error
	})
}
