package testutil

import (
	"context"
	"sync"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/gateway"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/notifier"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/redis_repo"
	"github.com/shopspring/decimal"
)

// FakeGateway 可控的payment gateway替身
type FakeGateway struct {
	mu sync.Mutex

	// Intent 下一次CreatePaymentIntent的回應，nil時回預設requires_payment_method
	Intent *gateway.Intent
	// Err 設定後CreatePaymentIntent直接失敗
	Err error

	Calls []FakeIntentCall
}

type FakeIntentCall struct {
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

func (f *FakeGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*gateway.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, FakeIntentCall{Amount: amount, Currency: currency, Metadata: metadata})
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Intent != nil {
		intent := *f.Intent
		return &intent, nil
	}
	return &gateway.Intent{
		ID:           "pi_fake",
		ClientSecret: "pi_fake_secret",
		Status:       gateway.IntentStatusRequiresAction,
	}, nil
}

var _ gateway.PaymentGateway = (*FakeGateway)(nil)

// FakeNotifier 把通知收進slice供斷言
type FakeNotifier struct {
	mu sync.Mutex

	Err  error
	Sent []notifier.Notification
}

func (f *FakeNotifier) Notify(ctx context.Context, n notifier.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, n)
	return nil
}

// SentTo 取出送給某個user的所有通知
func (f *FakeNotifier) SentTo(userID uint) []notifier.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []notifier.Notification
	for _, n := range f.Sent {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

var _ notifier.Notifier = (*FakeNotifier)(nil)

// FakeSnapshotRepo 記錄被作廢的商品快照供斷言，讀取永遠miss
type FakeSnapshotRepo struct {
	mu sync.Mutex

	Err     error
	Deleted []string
}

func (f *FakeSnapshotRepo) GetProductSnapshot(ctx context.Context, productID string) (*model.Product, error) {
	return nil, redis_repo.ErrCacheMiss
}

func (f *FakeSnapshotRepo) SetProductSnapshot(ctx context.Context, product *model.Product) error {
	return nil
}

func (f *FakeSnapshotRepo) DeleteProductSnapshot(ctx context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Deleted = append(f.Deleted, productID)
	return nil
}

var _ redis_repo.IProductSnapshotRepository = (*FakeSnapshotRepo)(nil)
