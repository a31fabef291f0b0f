package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"gorm.io/gorm"
)

// ErrOrderNotFound 訂單不存在
var ErrOrderNotFound = errors.New("order not found")

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單(含items)
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items").
		First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

// Read - 根據店家ID查詢訂單
func (s *OrderRepo) GetOrdersByStoreID(ctx context.Context, storeID uint, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("store_id = ?", storeID).
		Order("order_date DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

// Read - 查詢所有訂單
func (s *OrderRepo) GetAllOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Order("order_date DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

// Update - 更新訂單狀態
// 只開放status欄位，訂單其餘欄位成立後不可變
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
