package middleware

// Keys under which the middleware stores per-request identity and tracing
// data on the echo context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)
