package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/medmarket/internal/api"
	"github.com/RoyceAzure/lab/medmarket/internal/apperr"
	"github.com/RoyceAzure/lab/medmarket/internal/constants"
	"github.com/RoyceAzure/lab/medmarket/internal/domain/model"
)

// ActorMiddleware 上游auth gateway驗證過身份後以headers帶入
// 這裡只做materialize，身份協定本身不在這個服務的範圍
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDRaw := r.Header.Get(constants.HeaderUserID)
		role := r.Header.Get(constants.HeaderRole)
		if userIDRaw == "" || role == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseUint(userIDRaw, 10, 64)
		if err != nil {
			api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid user id header"))
			return
		}

		actor := model.Actor{UserID: uint(userID), Role: role}
		if storeIDRaw := r.Header.Get(constants.HeaderStoreID); storeIDRaw != "" {
			storeID, err := strconv.ParseUint(storeIDRaw, 10, 64)
			if err != nil {
				api.ErrorJSON(w, apperr.New(apperr.KindValidation, "invalid store id header"))
				return
			}
			actor.StoreID = uint(storeID)
		}

		ctx := context.WithValue(r.Context(), constants.ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActor 保護需要身份的路由
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); !ok {
			api.ErrorJSON(w, apperr.New(apperr.KindForbidden, "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(constants.ActorKey).(model.Actor)
	return actor, ok
}
