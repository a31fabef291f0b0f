package redis_decorator

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

/*
redis 專注商品快照讀取，只有讀路徑與庫存異動需要連動redis
寫入失敗不影響db操作，背景重試一次後放棄(快取有TTL自然過期)
*/
type CacheAsideProductRepo struct {
	db.IProductRepository
	redis redis_repo.IProductSnapshotRepository
}

func NewCacheAsideProductRepo(dbRepo db.IProductRepository, redis redis_repo.IProductSnapshotRepository) db.IProductRepository {
	return &CacheAsideProductRepo{IProductRepository: dbRepo, redis: redis}
}

func (p *CacheAsideProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	product, err := p.redis.GetProductSnapshot(ctx, productID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, redis_repo.ErrCacheMiss) {
		log.Warn().Err(err).Str("product_id", productID).Msg("product snapshot cache read failed")
	}

	product, err = p.IProductRepository.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.redis.SetProductSnapshot(ctx, product); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("product snapshot cache write failed")
	}
	return product, nil
}

func (p *CacheAsideProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := p.IProductRepository.UpdateProduct(ctx, product); err != nil {
		return err
	}
	p.invalidate(ctx, product.ProductID)
	return nil
}

func (p *CacheAsideProductRepo) DeductProductStock(ctx context.Context, productID string, quantity uint) (int, error) {
	stock, err := p.IProductRepository.DeductProductStock(ctx, productID, quantity)
	if err != nil {
		return stock, err
	}
	p.invalidate(ctx, productID)
	return stock, nil
}

func (p *CacheAsideProductRepo) AddProductStock(ctx context.Context, productID string, quantity uint) (int, error) {
	stock, err := p.IProductRepository.AddProductStock(ctx, productID, quantity)
	if err != nil {
		return stock, err
	}
	p.invalidate(ctx, productID)
	return stock, nil
}

func (p *CacheAsideProductRepo) invalidate(ctx context.Context, productID string) {
	err := p.redis.DeleteProductSnapshot(ctx, productID)
	if err != nil {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := p.redis.DeleteProductSnapshot(context.Background(), productID); err != nil {
				log.Warn().Err(err).Str("product_id", productID).Msg("product snapshot invalidation failed")
			}
		}()
	}
}
