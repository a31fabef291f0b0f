package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/authz"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/notifier"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
)

// 狀態機: pending -> paid -> shipping -> delivered
// 取消邊只有 pending -> cancelled 與 paid -> cancelled
// delivered / cancelled 為終態
var validTargetStatuses = map[string]struct{}{
	model.OrderStatusPaid:      {},
	model.OrderStatusShipping:  {},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

// validateTransition 所有caller共用同一套規則，不留寬鬆的旁路
func validateTransition(order *model.Order, newStatus string) error {
	if model.IsTerminalOrderStatus(order.Status) {
		return apperr.Newf(apperr.KindInvalidTransition,
			"order is in terminal status %s", order.Status)
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusPaid {
		return apperr.Newf(apperr.KindInvalidTransition,
			"order status cannot be changed from %s", order.Status)
	}
	if _, ok := validTargetStatuses[newStatus]; !ok {
		return apperr.Newf(apperr.KindInvalidTransition,
			"invalid status %q. Allowed: paid, shipping, delivered, cancelled", newStatus)
	}
	if newStatus == model.OrderStatusPaid {
		if order.PaymentMethod != model.PaymentMethodCard {
			return apperr.New(apperr.KindInvalidTransition,
				"only card payments can be marked as paid directly")
		}
		if order.Status == model.OrderStatusPaid {
			return apperr.New(apperr.KindInvalidTransition, "order is already paid")
		}
	}
	return nil
}

// ChangeStatus 統一的狀態變更入口
// 角色授權(authz policy) + 狀態機驗證 + 取消時的庫存補償在同一個交易內
func (s *Service) ChangeStatus(ctx context.Context, actor model.Actor, orderID, newStatus string) (*model.Order, error) {
	var updated *model.Order
	var notifications []notifier.Notification
	stockReturned := false

	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		notifications = notifications[:0]
		stockReturned = false

		order, err := tx.GetOrderByID(ctx, orderID)
		if errors.Is(err, db.ErrOrderNotFound) {
			return apperr.Newf(apperr.KindNotFound, "order %s does not exist", orderID)
		}
		if err != nil {
			return err
		}
		oldStatus := order.Status

		policy := authz.PolicyFor(actor.Role)
		if err := policy.CanTransition(actor, order, oldStatus, newStatus, []string{"status"}); err != nil {
			return err
		}
		if err := validateTransition(order, newStatus); err != nil {
			return err
		}

		if err := tx.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
			return err
		}
		order.Status = newStatus

		// 補償動作: 進入cancelled要把庫存還回去，跟狀態變更同一個交易
		if newStatus == model.OrderStatusCancelled && oldStatus != model.OrderStatusCancelled {
			for _, item := range order.Items {
				if _, err := tx.AddProductStock(ctx, item.ProductID, uint(item.Quantity)); err != nil {
					return fmt.Errorf("return stock for product %s: %w", item.ProductID, err)
				}
			}
			stockReturned = true
		}

		statusData := map[string]any{
			"order_id":        order.OrderID,
			"old_status":      oldStatus,
			"new_status":      newStatus,
			"shipping_cost":   order.ShippingCost.String(),
			"tax":             order.Tax.String(),
			"total_with_fees": order.TotalWithFees.String(),
		}
		notifications = append(notifications, notifier.Notification{
			UserID:    order.UserID,
			Message:   fmt.Sprintf("Order #%s status changed from %s to %s", order.OrderID, oldStatus, newStatus),
			Type:      model.NotificationTypeOrderUpdate,
			Data:      statusData,
			SendEmail: true,
		})

		store, err := tx.GetStoreByID(ctx, order.StoreID)
		if err == nil && store.OwnerUserID != order.UserID {
			notifications = append(notifications, notifier.Notification{
				UserID:    store.OwnerUserID,
				Message:   fmt.Sprintf("Order #%s status changed to %s", order.OrderID, newStatus),
				Type:      model.NotificationTypeOrderUpdate,
				Data:      statusData,
				SendEmail: true,
			})
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range notifications {
		s.notify(ctx, n)
	}
	if stockReturned {
		s.invalidateSnapshots(ctx, updated.Items)
	}
	return updated, nil
}
