package model

// 訂單狀態
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 付款方式
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodWallet = "wallet"
)

// 付款狀態
const (
	PaymentStatusPending   = "pending"
	PaymentStatusInitiated = "initiated"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// 使用者角色
const (
	RoleClient     = "client"
	RolePharmacist = "pharmacist"
	RoleAdmin      = "admin"
)

// 通知類型
const (
	NotificationTypeMessage     = "message"
	NotificationTypeSystem      = "system"
	NotificationTypeOrderUpdate = "order_update"
)

// IsTerminalOrderStatus 判斷訂單狀態是否為終態
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}
