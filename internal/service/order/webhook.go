package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/notifier"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
)

// HandlePaymentSucceeded gateway webhook的reconciler
// 冪等: gateway會重複投遞，已處理過的事件直接回成功且不重發通知
func (s *Service) HandlePaymentSucceeded(ctx context.Context, orderID string) error {
	var notifications []notifier.Notification

	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		notifications = notifications[:0]

		order, err := tx.GetOrderByID(ctx, orderID)
		if errors.Is(err, db.ErrOrderNotFound) {
			return apperr.Newf(apperr.KindNotFound, "order %s does not exist", orderID)
		}
		if err != nil {
			return err
		}

		payment, err := tx.GetPaymentByOrderID(ctx, orderID)
		if errors.Is(err, db.ErrPaymentNotFound) {
			return apperr.Newf(apperr.KindNotFound, "payment for order %s does not exist", orderID)
		}
		if err != nil {
			return err
		}

		// replay: 已經paid/completed，no-op成功
		if order.Status == model.OrderStatusPaid && payment.Status == model.PaymentStatusCompleted {
			return nil
		}

		if err := tx.UpdateOrderStatus(ctx, orderID, model.OrderStatusPaid); err != nil {
			return err
		}
		if err := tx.UpdatePaymentStatus(ctx, orderID, model.PaymentStatusCompleted); err != nil {
			return err
		}

		notifications = append(notifications, notifier.Notification{
			UserID:  order.UserID,
			Message: fmt.Sprintf("Payment successful for order #%s", orderID),
			Type:    model.NotificationTypeSystem,
			Data: map[string]any{
				"order_id":   orderID,
				"total_paid": payment.Amount.String(),
			},
		})
		return nil
	})
	if err != nil {
		return err
	}

	for _, n := range notifications {
		s.notify(ctx, n)
	}
	return nil
}
