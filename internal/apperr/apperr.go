package apperr

import (
	"errors"
	"fmt"
)

// Kind 機器可讀的錯誤分類，handler依此決定HTTP status
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindStoreConflict     Kind = "store_conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidTransition Kind = "invalid_transition"
	KindPaymentGateway    Kind = "payment_gateway"
	KindInternal          Kind = "internal"
)

// Error 對外只暴露kind與detail，不帶stack trace
// Data 給caller足夠的反應資訊(哪個商品、庫存多少、要求多少)
type Error struct {
	Kind   Kind
	Detail string
	Data   map[string]any
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

func (e *Error) WithData(data map[string]any) *Error {
	e.Data = data
	return e
}

// KindOf 取出錯誤分類，非*Error一律視為internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// InsufficientStock 庫存不足，附上商品與可用/要求數量
func InsufficientStock(productID string, available, requested int) *Error {
	return Newf(KindInsufficientStock,
		"not enough stock for product %s. Available: %d, requested: %d",
		productID, available, requested).
		WithData(map[string]any{
			"product_id": productID,
			"available":  available,
			"requested":  requested,
		})
}

// StoreConflict 購物車已綁定其他店家，需要force_clear確認
func StoreConflict(existingStoreID, requestedStoreID uint) *Error {
	return New(KindStoreConflict,
		"cart contains products from another store, clear the cart to add this product").
		WithData(map[string]any{
			"existing_store_id":     existingStoreID,
			"requested_store_id":    requestedStoreID,
			"requires_confirmation": true,
		})
}
