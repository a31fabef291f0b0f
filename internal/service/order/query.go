package order

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/constants"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
	"github.com/RoyceAzure/lab/medmarket/internal/infra/repository/db"
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetOrder 讀單筆訂單，admin/訂單主人/該店pharmacist以外一律Forbidden
func (s *Service) GetOrder(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, db.ErrOrderNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "order %s does not exist", orderID)
	}
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleClient:
		if order.UserID != actor.UserID {
			return nil, apperr.New(apperr.KindForbidden, "order does not belong to this client")
		}
	case model.RolePharmacist:
		if order.StoreID != actor.StoreID {
			return nil, apperr.New(apperr.KindForbidden, "order does not belong to this store")
		}
	default:
		return nil, apperr.New(apperr.KindForbidden, "role is not allowed to read orders")
	}
	return order, nil
}

// ListOrders 依角色限縮查詢範圍，新的在前
func (s *Service) ListOrders(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Order, error) {
	limit, offset = clampPage(limit, offset)

	switch actor.Role {
	case model.RoleAdmin:
		return s.store.GetAllOrders(ctx, limit, offset)
	case model.RolePharmacist:
		return s.store.GetOrdersByStoreID(ctx, actor.StoreID, limit, offset)
	case model.RoleClient:
		return s.store.GetOrdersByUserID(ctx, actor.UserID, limit, offset)
	default:
		return nil, apperr.New(apperr.KindForbidden, "role is not allowed to list orders")
	}
}

// ListPayments 只開放admin
func (s *Service) ListPayments(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Payment, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.New(apperr.KindForbidden, "only admins can list payments")
	}
	limit, offset = clampPage(limit, offset)
	return s.store.GetAllPayments(ctx, limit, offset)
}
