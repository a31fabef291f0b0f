package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductStockNotEnough 商品庫存不足
	ErrProductStockNotEnough = errors.New("product stock not enough")
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductStock(ctx context.Context, productID string) (int, error) {
	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return int(product.Stock), nil
}

// Update - 更新商品
func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// DeductProductStock 條件式原子扣減
// stock = stock - q WHERE stock >= q，RowsAffected為0代表不存在或庫存不足
// 併發下單靠這裡保證不會扣到負數
func (s *ProductRepo) DeductProductStock(ctx context.Context, productID string, quantity uint) (int, error) {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// 區分不存在與庫存不足
		current, err := s.GetProductStock(ctx, productID)
		if err != nil {
			return 0, err
		}
		return current, ErrProductStockNotEnough
	}

	return s.GetProductStock(ctx, productID)
}

// AddProductStock 取消訂單的補償動作用
func (s *ProductRepo) AddProductStock(ctx context.Context, productID string, quantity uint) (int, error) {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrProductNotFound
	}

	return s.GetProductStock(ctx, productID)
}
