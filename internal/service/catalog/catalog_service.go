package catalog

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

// Snapshot 商品當下的目錄快照，core的所有計價/驗證步驟都吃這個
type Snapshot struct {
	ProductID string          `json:"product_id"`
	StoreID   uint            `json:"store_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

type IService interface {
	GetSnapshot(ctx context.Context, productID string) (*Snapshot, error)
}

// Service 唯讀的目錄存取，讀路徑走cache-aside裝飾過的repo
type Service struct {
	productRepo db.IProductRepository
}

func NewService(productRepo db.IProductRepository) *Service {
	if productRepo == nil {
		panic("productRepo cannot be nil")
	}
	return &Service{productRepo: productRepo}
}

func (s *Service) GetSnapshot(ctx context.Context, productID string) (*Snapshot, error) {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if errors.Is(err, db.ErrProductNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "product %s does not exist", productID)
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ProductID: product.ProductID,
		StoreID:   product.StoreID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     int(product.Stock),
	}, nil
}

var _ IService = (*Service)(nil)
