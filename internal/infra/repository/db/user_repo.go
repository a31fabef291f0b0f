package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 用戶不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreNotFound 店家不存在
	ErrStoreNotFound = errors.New("store not found")
)

type UserRepo struct {
	db *DbDao
}

func NewUserRepo(db *DbDao) *UserRepo {
	return &UserRepo{db: db}
}

func (s *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepo) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserRepo) CreateStore(ctx context.Context, store *model.MedicalStore) error {
	return s.db.WithContext(ctx).Create(store).Error
}

func (s *UserRepo) GetStoreByID(ctx context.Context, storeID uint) (*model.MedicalStore, error) {
	var store model.MedicalStore
	err := s.db.WithContext(ctx).First(&store, "store_id = ?", storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}
