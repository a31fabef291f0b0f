package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"gorm.io/gorm"
)

// ErrPaymentNotFound 付款紀錄不存在
var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepo struct {
	db *DbDao
}

func NewPaymentRepo(db *DbDao) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (s *PaymentRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

func (s *PaymentRepo) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentRepo) UpdatePaymentStatus(ctx context.Context, orderID string, status string) error {
	res := s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (s *PaymentRepo) GetAllPayments(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Order("payment_date DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, err
}
