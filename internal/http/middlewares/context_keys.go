package middlewares

// gin context keys for identity and request metadata.
const (
	CtxRequestID = "request_id"
	CtxUser      = "auth.user"
	CtxEmail     = "auth.email"
	CtxRole      = "auth.role"
)
