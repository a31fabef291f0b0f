package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
)

// MemStore 測試用的in-memory db.Store
// ExecTx以mutex序列化並在失敗時整組還原快照，模擬SQL交易的rollback語意
type MemStore struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	products      map[string]model.Product
	carts         map[uint]model.Cart // key: userID
	orders        map[string]model.Order
	payments      map[string]model.Payment // key: orderID
	users         map[uint]model.User
	stores        map[uint]model.MedicalStore
	nextPaymentID uint
	orderSeq      []string // 插入順序，同時間下單時的排序tie-break
}

func NewMemStore() *MemStore {
	return &MemStore{d: &data{
		products:      make(map[string]model.Product),
		carts:         make(map[uint]model.Cart),
		orders:        make(map[string]model.Order),
		payments:      make(map[string]model.Payment),
		users:         make(map[uint]model.User),
		stores:        make(map[uint]model.MedicalStore),
		nextPaymentID: 1,
	}}
}

// --- seed helpers ---

func (m *MemStore) SeedUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.users[u.UserID] = u
}

func (m *MemStore) SeedStore(s model.MedicalStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.stores[s.StoreID] = s
}

func (m *MemStore) SeedProduct(p model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.products[p.ProductID] = p
}

func (m *MemStore) SeedOrder(o model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.orders[o.OrderID] = cloneOrder(o)
	m.d.orderSeq = append(m.d.orderSeq, o.OrderID)
}

func (m *MemStore) SeedPayment(p model.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.PaymentID == 0 {
		p.PaymentID = m.d.nextPaymentID
		m.d.nextPaymentID++
	}
	m.d.payments[p.OrderID] = p
}

// --- snapshot / rollback ---

func (d *data) clone() *data {
	cp := &data{
		products:      make(map[string]model.Product, len(d.products)),
		carts:         make(map[uint]model.Cart, len(d.carts)),
		orders:        make(map[string]model.Order, len(d.orders)),
		payments:      make(map[string]model.Payment, len(d.payments)),
		users:         make(map[uint]model.User, len(d.users)),
		stores:        make(map[uint]model.MedicalStore, len(d.stores)),
		nextPaymentID: d.nextPaymentID,
		orderSeq:      append([]string(nil), d.orderSeq...),
	}
	for k, v := range d.products {
		cp.products[k] = v
	}
	for k, v := range d.carts {
		cp.carts[k] = cloneCart(v)
	}
	for k, v := range d.orders {
		cp.orders[k] = cloneOrder(v)
	}
	for k, v := range d.payments {
		cp.payments[k] = v
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	for k, v := range d.stores {
		cp.stores[k] = v
	}
	return cp
}

func cloneCart(c model.Cart) model.Cart {
	c.Items = append([]model.CartItem(nil), c.Items...)
	return c
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

// ExecTx 序列化所有交易，fn失敗時還原進入交易前的快照
func (m *MemStore) ExecTx(ctx context.Context, fn func(db.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d.clone()
	if err := fn(&txStore{d: m.d}); err != nil {
		m.d = snapshot
		return err
	}
	return nil
}

// txStore 交易內的view，不加鎖(外層ExecTx已持有)
type txStore struct {
	d *data
}

// 巢狀交易攤平處理，外層已具備rollback語意
func (t *txStore) ExecTx(ctx context.Context, fn func(db.Store) error) error {
	return fn(t)
}

// --- 非交易路徑：加鎖後委派給同一套實作 ---

func (m *MemStore) locked(fn func(*txStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&txStore{d: m.d})
}

func (m *MemStore) CreateProduct(ctx context.Context, product *model.Product) error {
	return m.locked(func(t *txStore) error { return t.CreateProduct(ctx, product) })
}

func (m *MemStore) GetProductByID(ctx context.Context, productID string) (p *model.Product, err error) {
	m.locked(func(t *txStore) error { p, err = t.GetProductByID(ctx, productID); return nil })
	return
}

func (m *MemStore) GetProductStock(ctx context.Context, productID string) (stock int, err error) {
	m.locked(func(t *txStore) error { stock, err = t.GetProductStock(ctx, productID); return nil })
	return
}

func (m *MemStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	return m.locked(func(t *txStore) error { return t.UpdateProduct(ctx, product) })
}

func (m *MemStore) DeductProductStock(ctx context.Context, productID string, quantity uint) (stock int, err error) {
	m.locked(func(t *txStore) error { stock, err = t.DeductProductStock(ctx, productID, quantity); return nil })
	return
}

func (m *MemStore) AddProductStock(ctx context.Context, productID string, quantity uint) (stock int, err error) {
	m.locked(func(t *txStore) error { stock, err = t.AddProductStock(ctx, productID, quantity); return nil })
	return
}

func (m *MemStore) GetCartByUserID(ctx context.Context, userID uint) (c *model.Cart, err error) {
	m.locked(func(t *txStore) error { c, err = t.GetCartByUserID(ctx, userID); return nil })
	return
}

func (m *MemStore) UpsertCart(ctx context.Context, cart *model.Cart) error {
	return m.locked(func(t *txStore) error { return t.UpsertCart(ctx, cart) })
}

func (m *MemStore) DeleteCartByUserID(ctx context.Context, userID uint) error {
	return m.locked(func(t *txStore) error { return t.DeleteCartByUserID(ctx, userID) })
}

func (m *MemStore) CreateOrder(ctx context.Context, order *model.Order) error {
	return m.locked(func(t *txStore) error { return t.CreateOrder(ctx, order) })
}

func (m *MemStore) GetOrderByID(ctx context.Context, orderID string) (o *model.Order, err error) {
	m.locked(func(t *txStore) error { o, err = t.GetOrderByID(ctx, orderID); return nil })
	return
}

func (m *MemStore) GetOrdersByUserID(ctx context.Context, userID uint, limit, offset int) (orders []model.Order, err error) {
	m.locked(func(t *txStore) error { orders, err = t.GetOrdersByUserID(ctx, userID, limit, offset); return nil })
	return
}

func (m *MemStore) GetOrdersByStoreID(ctx context.Context, storeID uint, limit, offset int) (orders []model.Order, err error) {
	m.locked(func(t *txStore) error { orders, err = t.GetOrdersByStoreID(ctx, storeID, limit, offset); return nil })
	return
}

func (m *MemStore) GetAllOrders(ctx context.Context, limit, offset int) (orders []model.Order, err error) {
	m.locked(func(t *txStore) error { orders, err = t.GetAllOrders(ctx, limit, offset); return nil })
	return
}

func (m *MemStore) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	return m.locked(func(t *txStore) error { return t.UpdateOrderStatus(ctx, orderID, status) })
}

func (m *MemStore) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return m.locked(func(t *txStore) error { return t.CreatePayment(ctx, payment) })
}

func (m *MemStore) GetPaymentByOrderID(ctx context.Context, orderID string) (p *model.Payment, err error) {
	m.locked(func(t *txStore) error { p, err = t.GetPaymentByOrderID(ctx, orderID); return nil })
	return
}

func (m *MemStore) UpdatePaymentStatus(ctx context.Context, orderID string, status string) error {
	return m.locked(func(t *txStore) error { return t.UpdatePaymentStatus(ctx, orderID, status) })
}

func (m *MemStore) GetAllPayments(ctx context.Context, limit, offset int) (payments []model.Payment, err error) {
	m.locked(func(t *txStore) error { payments, err = t.GetAllPayments(ctx, limit, offset); return nil })
	return
}

func (m *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	return m.locked(func(t *txStore) error { return t.CreateUser(ctx, user) })
}

func (m *MemStore) GetUserByID(ctx context.Context, userID uint) (u *model.User, err error) {
	m.locked(func(t *txStore) error { u, err = t.GetUserByID(ctx, userID); return nil })
	return
}

func (m *MemStore) CreateStore(ctx context.Context, store *model.MedicalStore) error {
	return m.locked(func(t *txStore) error { return t.CreateStore(ctx, store) })
}

func (m *MemStore) GetStoreByID(ctx context.Context, storeID uint) (s *model.MedicalStore, err error) {
	m.locked(func(t *txStore) error { s, err = t.GetStoreByID(ctx, storeID); return nil })
	return
}

// --- txStore: 實際的資料操作 ---

func (t *txStore) CreateProduct(ctx context.Context, product *model.Product) error {
	t.d.products[product.ProductID] = *product
	return nil
}

func (t *txStore) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	p, ok := t.d.products[productID]
	if !ok {
		return nil, db.ErrProductNotFound
	}
	return &p, nil
}

func (t *txStore) GetProductStock(ctx context.Context, productID string) (int, error) {
	p, ok := t.d.products[productID]
	if !ok {
		return 0, db.ErrProductNotFound
	}
	return int(p.Stock), nil
}

func (t *txStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	t.d.products[product.ProductID] = *product
	return nil
}

func (t *txStore) DeductProductStock(ctx context.Context, productID string, quantity uint) (int, error) {
	p, ok := t.d.products[productID]
	if !ok {
		return 0, db.ErrProductNotFound
	}
	if p.Stock < quantity {
		return int(p.Stock), db.ErrProductStockNotEnough
	}
	p.Stock -= quantity
	t.d.products[productID] = p
	return int(p.Stock), nil
}

func (t *txStore) AddProductStock(ctx context.Context, productID string, quantity uint) (int, error) {
	p, ok := t.d.products[productID]
	if !ok {
		return 0, db.ErrProductNotFound
	}
	p.Stock += quantity
	t.d.products[productID] = p
	return int(p.Stock), nil
}

func (t *txStore) GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	c, ok := t.d.carts[userID]
	if !ok {
		return nil, db.ErrCartNotFound
	}
	c = cloneCart(c)
	sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].Position < c.Items[j].Position })
	return &c, nil
}

func (t *txStore) UpsertCart(ctx context.Context, cart *model.Cart) error {
	t.d.carts[cart.UserID] = cloneCart(*cart)
	return nil
}

func (t *txStore) DeleteCartByUserID(ctx context.Context, userID uint) error {
	delete(t.d.carts, userID)
	return nil
}

func (t *txStore) CreateOrder(ctx context.Context, order *model.Order) error {
	t.d.orders[order.OrderID] = cloneOrder(*order)
	t.d.orderSeq = append(t.d.orderSeq, order.OrderID)
	return nil
}

func (t *txStore) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	o, ok := t.d.orders[orderID]
	if !ok {
		return nil, db.ErrOrderNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (t *txStore) listOrders(match func(model.Order) bool, limit, offset int) []model.Order {
	// 新單在前，同時間以插入順序倒排
	var result []model.Order
	for i := len(t.d.orderSeq) - 1; i >= 0; i-- {
		o, ok := t.d.orders[t.d.orderSeq[i]]
		if !ok || !match(o) {
			continue
		}
		result = append(result, cloneOrder(o))
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OrderDate.After(result[j].OrderDate) })

	if offset >= len(result) {
		return nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result
}

func (t *txStore) GetOrdersByUserID(ctx context.Context, userID uint, limit, offset int) ([]model.Order, error) {
	return t.listOrders(func(o model.Order) bool { return o.UserID == userID }, limit, offset), nil
}

func (t *txStore) GetOrdersByStoreID(ctx context.Context, storeID uint, limit, offset int) ([]model.Order, error) {
	return t.listOrders(func(o model.Order) bool { return o.StoreID == storeID }, limit, offset), nil
}

func (t *txStore) GetAllOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	return t.listOrders(func(o model.Order) bool { return true }, limit, offset), nil
}

func (t *txStore) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	o, ok := t.d.orders[orderID]
	if !ok {
		return db.ErrOrderNotFound
	}
	o.Status = status
	t.d.orders[orderID] = o
	return nil
}

func (t *txStore) CreatePayment(ctx context.Context, payment *model.Payment) error {
	if payment.PaymentID == 0 {
		payment.PaymentID = t.d.nextPaymentID
		t.d.nextPaymentID++
	}
	t.d.payments[payment.OrderID] = *payment
	return nil
}

func (t *txStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	p, ok := t.d.payments[orderID]
	if !ok {
		return nil, db.ErrPaymentNotFound
	}
	return &p, nil
}

func (t *txStore) UpdatePaymentStatus(ctx context.Context, orderID string, status string) error {
	p, ok := t.d.payments[orderID]
	if !ok {
		return db.ErrPaymentNotFound
	}
	p.Status = status
	t.d.payments[orderID] = p
	return nil
}

func (t *txStore) GetAllPayments(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range t.d.payments {
		result = append(result, p)
	}
	// 真實repo依payment_date DESC回傳(最新在前)，同時間以PaymentID遞減tie-break
	sort.Slice(result, func(i, j int) bool {
		if result[i].PaymentDate.Equal(result[j].PaymentDate) {
			return result[i].PaymentID > result[j].PaymentID
		}
		return result[i].PaymentDate.After(result[j].PaymentDate)
	})
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (t *txStore) CreateUser(ctx context.Context, user *model.User) error {
	t.d.users[user.UserID] = *user
	return nil
}

func (t *txStore) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	u, ok := t.d.users[userID]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return &u, nil
}

func (t *txStore) CreateStore(ctx context.Context, store *model.MedicalStore) error {
	t.d.stores[store.StoreID] = *store
	return nil
}

func (t *txStore) GetStoreByID(ctx context.Context, storeID uint) (*model.MedicalStore, error) {
	s, ok := t.d.stores[storeID]
	if !ok {
		return nil, db.ErrStoreNotFound
	}
	return &s, nil
}

var (
	_ db.Store = (*MemStore)(nil)
	_ db.Store = (*txStore)(nil)
)
