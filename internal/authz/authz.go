package authz

import (
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
)

// TransitionPolicy 每種角色一個實作，取代散落的role if-else
type TransitionPolicy interface {
	// CanTransition 回傳nil代表該角色允許這次狀態變更
	// fields為這次請求要異動的欄位，pharmacist只准動status
	CanTransition(actor model.Actor, order *model.Order, from, to string, fields []string) error
}

// PolicyFor 依角色取得policy，未知角色一律禁止
func PolicyFor(role string) TransitionPolicy {
	switch role {
	case model.RoleClient:
		return clientPolicy{}
	case model.RolePharmacist:
		return pharmacistPolicy{}
	case model.RoleAdmin:
		return adminPolicy{}
	default:
		return denyPolicy{}
	}
}

// CanPlaceOrder admin可代任何client下單，client只能替自己下單
func CanPlaceOrder(actor model.Actor, clientID uint) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleClient:
		if actor.UserID != clientID {
			return apperr.New(apperr.KindForbidden, "clients can only place orders for themselves")
		}
		return nil
	default:
		return apperr.New(apperr.KindForbidden, "only clients and admins can create orders")
	}
}

type clientPolicy struct{}

// client只能取消自己的訂單，且僅限pending
func (clientPolicy) CanTransition(actor model.Actor, order *model.Order, from, to string, fields []string) error {
	if order.UserID != actor.UserID {
		return apperr.New(apperr.KindForbidden, "order does not belong to this client")
	}
	if to != model.OrderStatusCancelled {
		return apperr.New(apperr.KindForbidden, "clients can only cancel their order")
	}
	if from != model.OrderStatusPending {
		return apperr.New(apperr.KindForbidden, "you can only cancel orders that are still pending")
	}
	return nil
}

type pharmacistPolicy struct{}

// pharmacist只能動自己店的訂單，且只能動status欄位
func (pharmacistPolicy) CanTransition(actor model.Actor, order *model.Order, from, to string, fields []string) error {
	if order.StoreID != actor.StoreID {
		return apperr.New(apperr.KindForbidden, "order does not belong to this store")
	}
	for _, f := range fields {
		if f != "status" {
			return apperr.New(apperr.KindForbidden, "pharmacists can only update order status")
		}
	}
	return nil
}

type adminPolicy struct{}

func (adminPolicy) CanTransition(actor model.Actor, order *model.Order, from, to string, fields []string) error {
	return nil
}

type denyPolicy struct{}

func (denyPolicy) CanTransition(actor model.Actor, order *model.Order, from, to string, fields []string) error {
	return apperr.New(apperr.KindForbidden, "role is not allowed to update orders")
}
