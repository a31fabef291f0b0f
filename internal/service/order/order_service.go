package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/authz"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/gateway"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/geo"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/notifier"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/medmarket/internal/service/pricing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const paymentCurrency = "usd"

type IService interface {
	PlaceOrder(ctx context.Context, actor model.Actor, params PlaceOrderParams) (*PlaceOrderResult, error)
	ChangeStatus(ctx context.Context, actor model.Actor, orderID, newStatus string) (*model.Order, error)
	HandlePaymentSucceeded(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Order, error)
	ListPayments(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Payment, error)
}

// Service 下單orchestrator + 訂單狀態機 + webhook reconciler
type Service struct {
	store    db.Store
	pricer   *pricing.Calculator
	gateway  gateway.PaymentGateway
	notifier notifier.Notifier
	// snapshots 可為nil(沒接redis時)，庫存異動commit後拿來作廢商品快照
	snapshots redis_repo.IProductSnapshotRepository
	logger    *zerolog.Logger
}

func NewService(store db.Store, pricer *pricing.Calculator, gw gateway.PaymentGateway, nf notifier.Notifier, snapshots redis_repo.IProductSnapshotRepository, logger *zerolog.Logger) *Service {
	if store == nil || pricer == nil || gw == nil || nf == nil {
		panic("order service dependencies cannot be nil")
	}
	return &Service{store: store, pricer: pricer, gateway: gw, notifier: nf, snapshots: snapshots, logger: logger}
}

type PlaceOrderParams struct {
	// ClientID admin代下單時指定，client下單時忽略(只能替自己)
	ClientID        uint
	Items           []model.LineRequest
	StoreID         uint // 0代表由第一個商品推斷
	ShippingAddress string
	ShippingLat     *float64
	ShippingLng     *float64
	PaymentMethod   string
}

type PlaceOrderResult struct {
	Order *model.Order
	// ClientSecret card訂單回給前端完成3DS/確認用
	ClientSecret string
}

// PlaceOrder 下單交易，以下步驟全部成功才commit，任何一步失敗整組rollback:
// 授權 -> 庫存預檢 -> 訂單快照 -> 費用計算 -> 庫存條件扣減 -> payment -> gateway(card) -> 清購物車
// 通知為best-effort，不影響交易結果
// gateway失敗時連庫存扣減一併回滾，刷卡失敗不燒庫存
func (s *Service) PlaceOrder(ctx context.Context, actor model.Actor, params PlaceOrderParams) (*PlaceOrderResult, error) {
	clientID := params.ClientID
	if actor.Role == model.RoleClient {
		clientID = actor.UserID
	}
	if err := authz.CanPlaceOrder(actor, clientID); err != nil {
		return nil, err
	}
	if clientID == 0 {
		return nil, apperr.New(apperr.KindValidation, "client id is required")
	}

	if err := validatePlaceOrderParams(params); err != nil {
		return nil, err
	}

	var result *PlaceOrderResult
	var notifications []notifier.Notification

	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		notifications = notifications[:0]

		client, err := tx.GetUserByID(ctx, clientID)
		if errors.Is(err, db.ErrUserNotFound) {
			return apperr.Newf(apperr.KindNotFound, "client %d does not exist", clientID)
		}
		if err != nil {
			return err
		}

		// 庫存預檢 + 價格凍結
		orderID := uuid.NewString()
		storeID := params.StoreID
		subtotal := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(params.Items))
		for _, line := range params.Items {
			product, err := tx.GetProductByID(ctx, line.ProductID)
			if errors.Is(err, db.ErrProductNotFound) {
				return apperr.Newf(apperr.KindNotFound, "product %s does not exist", line.ProductID)
			}
			if err != nil {
				return err
			}
			if storeID == 0 {
				storeID = product.StoreID
			}
			if product.StoreID != storeID {
				return apperr.Newf(apperr.KindValidation,
					"product %s does not belong to store %d", line.ProductID, storeID)
			}
			if line.Quantity > int(product.Stock) {
				return apperr.InsufficientStock(line.ProductID, int(product.Stock), line.Quantity)
			}
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			orderItems = append(orderItems, model.OrderItem{
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     product.Price, // 價格凍結在下單當下
			})
		}

		store, err := tx.GetStoreByID(ctx, storeID)
		if errors.Is(err, db.ErrStoreNotFound) {
			return apperr.Newf(apperr.KindNotFound, "store %d does not exist", storeID)
		}
		if err != nil {
			return err
		}

		// 運費用店家座標對客戶預設座標
		quote := s.pricer.QuoteOrder(subtotal,
			geo.NewCoord(store.Latitude, store.Longitude),
			geo.NewCoord(client.DefaultLatitude, client.DefaultLongitude))

		order := &model.Order{
			OrderID:           orderID,
			UserID:            clientID,
			StoreID:           storeID,
			Items:             orderItems,
			ShippingAddress:   params.ShippingAddress,
			ShippingLatitude:  params.ShippingLat,
			ShippingLongitude: params.ShippingLng,
			PaymentMethod:     params.PaymentMethod,
			Status:            model.OrderStatusPending,
			Subtotal:          quote.Subtotal,
			ShippingCost:      quote.ShippingCost,
			Tax:               quote.Tax,
			TotalWithFees:     quote.TotalWithFees,
			OrderDate:         time.Now().UTC(),
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// 條件式扣減，跟預檢在同一個交易內，併發下單不會一起過
		for _, item := range orderItems {
			available, err := tx.DeductProductStock(ctx, item.ProductID, uint(item.Quantity))
			if errors.Is(err, db.ErrProductStockNotEnough) {
				return apperr.InsufficientStock(item.ProductID, available, item.Quantity)
			}
			if err != nil {
				return fmt.Errorf("deduct stock for product %s: %w", item.ProductID, err)
			}
		}

		payment := &model.Payment{
			OrderID:     orderID,
			UserID:      clientID,
			Amount:      quote.TotalWithFees,
			Method:      params.PaymentMethod,
			Status:      model.PaymentStatusPending,
			PaymentDate: time.Now().UTC(),
		}
		if params.PaymentMethod == model.PaymentMethodCard {
			payment.Status = model.PaymentStatusInitiated
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		clientSecret := ""
		if params.PaymentMethod == model.PaymentMethodCard {
			intent, err := s.gateway.CreatePaymentIntent(ctx, quote.TotalWithFees, paymentCurrency, map[string]string{
				"order_id":      orderID,
				"shipping_cost": quote.ShippingCost.String(),
				"tax":           quote.Tax.String(),
			})
			if err != nil {
				// gateway失敗整個交易abort，庫存不burn
				return apperr.Wrap(apperr.KindPaymentGateway, "payment gateway error", err)
			}
			clientSecret = intent.ClientSecret

			if intent.Status == gateway.IntentStatusSucceeded {
				if err := tx.UpdateOrderStatus(ctx, orderID, model.OrderStatusPaid); err != nil {
					return err
				}
				if err := tx.UpdatePaymentStatus(ctx, orderID, model.PaymentStatusCompleted); err != nil {
					return err
				}
				order.Status = model.OrderStatusPaid
				payment.Status = model.PaymentStatusCompleted

				notifications = append(notifications, notifier.Notification{
					UserID:  clientID,
					Message: fmt.Sprintf("Payment successful for order #%s", orderID),
					Type:    model.NotificationTypeSystem,
					Data: map[string]any{
						"order_id":   orderID,
						"total_paid": quote.TotalWithFees.String(),
					},
				})
			}
		}

		notifications = append(notifications, notifier.Notification{
			UserID:  store.OwnerUserID,
			Message: fmt.Sprintf("You have a new order #%s from %s", orderID, client.UserName),
			Type:    model.NotificationTypeMessage,
			Data: map[string]any{
				"order_id":      orderID,
				"client_name":   client.UserName,
				"total_amount":  quote.Subtotal.String(),
				"shipping_cost": quote.ShippingCost.String(),
				"tax":           quote.Tax.String(),
			},
		})

		// 下單成功，處理掉購物車
		if err := tx.DeleteCartByUserID(ctx, clientID); err != nil {
			return fmt.Errorf("dispose cart: %w", err)
		}

		result = &PlaceOrderResult{Order: order, ClientSecret: clientSecret}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// commit後才發通知，失敗只記log
	for _, n := range notifications {
		s.notify(ctx, n)
	}
	s.invalidateSnapshots(ctx, result.Order.Items)
	return result, nil
}

// invalidateSnapshots 庫存異動commit後把商品快照作廢
// best-effort: 作廢失敗只記log，快照本身有TTL兜底
func (s *Service) invalidateSnapshots(ctx context.Context, items []model.OrderItem) {
	if s.snapshots == nil {
		return
	}
	for _, item := range items {
		if err := s.snapshots.DeleteProductSnapshot(ctx, item.ProductID); err != nil {
			s.logger.Warn().Err(err).
				Str("product_id", item.ProductID).
				Msg("product snapshot invalidation failed")
		}
	}
}

func validatePlaceOrderParams(params PlaceOrderParams) error {
	if len(params.Items) == 0 {
		return apperr.New(apperr.KindValidation, "order must contain at least one item")
	}
	for _, line := range params.Items {
		if line.ProductID == "" || line.Quantity <= 0 {
			return apperr.New(apperr.KindValidation, "each item must have product_id and a positive quantity")
		}
	}
	switch params.PaymentMethod {
	case model.PaymentMethodCash, model.PaymentMethodCard:
		return nil
	case model.PaymentMethodWallet:
		return apperr.New(apperr.KindValidation, "wallet payments are not supported yet")
	default:
		return apperr.New(apperr.KindValidation, "invalid payment method")
	}
}

// notify best-effort，失敗記log絕不往外丟
func (s *Service) notify(ctx context.Context, n notifier.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).
			Uint("user_id", n.UserID).
			Str("type", n.Type).
			Msg("notification dispatch failed")
	}
}

var _ IService = (*Service)(nil)
