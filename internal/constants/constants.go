package constants

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	ActorKey     ContextKey = "actor"
)

const (
	// 上游auth gateway帶入的身份headers
	HeaderUserID  = "X-User-Id"
	HeaderRole    = "X-User-Role"
	HeaderStoreID = "X-Store-Id"

	// gateway webhook簽章header
	HeaderGatewaySignature = "Stripe-Signature"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
