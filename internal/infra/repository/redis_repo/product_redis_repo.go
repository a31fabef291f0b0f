package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type ProductRepoError error

// ErrCacheMiss 快取中沒有該商品
var ErrCacheMiss ProductRepoError = errors.New("product snapshot not in cache")

// IProductSnapshotRepository 商品快照的redis操作介面
// 只服務讀路徑(瀏覽、購物車計價)，下單時的庫存檢查一律走db交易
type IProductSnapshotRepository interface {
	GetProductSnapshot(ctx context.Context, productID string) (*model.Product, error)
	SetProductSnapshot(ctx context.Context, product *model.Product) error
	DeleteProductSnapshot(ctx context.Context, productID string) error
}

/*	redis 商品快照
	結構:
	product:{id}:snapshot: {
		store_id: 3,
		price: "10.00",
		stock: 100,
	}*/

type ProductSnapshotRepo struct {
	productCache *redis.Client
	ttl          time.Duration
}

func NewProductSnapshotRepo(productCache *redis.Client, ttl time.Duration) *ProductSnapshotRepo {
	return &ProductSnapshotRepo{productCache: productCache, ttl: ttl}
}

func generateProductSnapshotKey(productID string) string {
	return fmt.Sprintf("product:%s:snapshot", productID)
}

func (s *ProductSnapshotRepo) GetProductSnapshot(ctx context.Context, productID string) (*model.Product, error) {
	redisKey := generateProductSnapshotKey(productID)
	fields, err := s.productCache.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get product snapshot: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrCacheMiss
	}

	storeID, err := strconv.ParseUint(fields["store_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id in snapshot for product %s: %w", productID, err)
	}
	price, err := decimal.NewFromString(fields["price"])
	if err != nil {
		return nil, fmt.Errorf("invalid price in snapshot for product %s: %w", productID, err)
	}
	stock, err := strconv.ParseUint(fields["stock"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stock in snapshot for product %s: %w", productID, err)
	}

	return &model.Product{
		ProductID: productID,
		StoreID:   uint(storeID),
		Name:      fields["name"],
		Price:     price,
		Stock:     uint(stock),
	}, nil
}

func (s *ProductSnapshotRepo) SetProductSnapshot(ctx context.Context, product *model.Product) error {
	redisKey := generateProductSnapshotKey(product.ProductID)
	err := s.productCache.HSet(ctx, redisKey,
		"store_id", product.StoreID,
		"name", product.Name,
		"price", product.Price.String(),
		"stock", product.Stock,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set product snapshot: %w", err)
	}
	if s.ttl > 0 {
		if err := s.productCache.Expire(ctx, redisKey, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to expire product snapshot: %w", err)
		}
	}
	return nil
}

func (s *ProductSnapshotRepo) DeleteProductSnapshot(ctx context.Context, productID string) error {
	redisKey := generateProductSnapshotKey(productID)
	if err := s.productCache.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to delete product snapshot: %w", err)
	}
	return nil
}

var _ IProductSnapshotRepository = (*ProductSnapshotRepo)(nil)
