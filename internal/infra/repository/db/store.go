package db

import (
	"context"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"gorm.io/gorm"
)

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetProductStock(ctx context.Context, productID string) (int, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	// DeductProductStock 原子性條件扣減，stock不足時回傳ErrProductStockNotEnough
	DeductProductStock(ctx context.Context, productID string, quantity uint) (int, error)
	AddProductStock(ctx context.Context, productID string, quantity uint) (int, error)
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	// UpsertCart 整車覆寫(含items)，同一交易內all-or-nothing
	UpsertCart(ctx context.Context, cart *model.Cart) error
	DeleteCartByUserID(ctx context.Context, userID uint) error
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint, limit, offset int) ([]model.Order, error)
	GetOrdersByStoreID(ctx context.Context, storeID uint, limit, offset int) ([]model.Order, error)
	GetAllOrders(ctx context.Context, limit, offset int) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) error
}

// IPaymentRepository Payment 相關操作介面
type IPaymentRepository interface {
	CreatePayment(ctx context.Context, payment *model.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status string) error
	GetAllPayments(ctx context.Context, limit, offset int) ([]model.Payment, error)
}

// IUserRepository User/Store 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	CreateStore(ctx context.Context, store *model.MedicalStore) error
	GetStoreByID(ctx context.Context, storeID uint) (*model.MedicalStore, error)
}

// Store 統一的資料存取介面，ExecTx把多個repo操作包進同一個交易
type Store interface {
	IProductRepository
	ICartRepository
	IOrderRepository
	IPaymentRepository
	IUserRepository
	ExecTx(ctx context.Context, fn func(Store) error) error
}

type SQLStore struct {
	dao *DbDao
	*ProductRepo
	*CartRepo
	*OrderRepo
	*PaymentRepo
	*UserRepo
}

func NewSQLStore(dao *DbDao) *SQLStore {
	return &SQLStore{
		dao:         dao,
		ProductRepo: NewProductRepo(dao),
		CartRepo:    NewCartRepo(dao),
		OrderRepo:   NewOrderRepo(dao),
		PaymentRepo: NewPaymentRepo(dao),
		UserRepo:    NewUserRepo(dao),
	}
}

// ExecTx 交易內任何error整組rollback
func (s *SQLStore) ExecTx(ctx context.Context, fn func(Store) error) error {
	return s.dao.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSQLStore(NewDbDao(tx)))
	})
}

var _ Store = (*SQLStore)(nil)
