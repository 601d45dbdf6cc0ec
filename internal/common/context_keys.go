// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// SessionKey is the gin context key holding the request-scoped session
	SessionKey = "session"
	// LoggerKey is the gin context key holding a request-scoped logger
	LoggerKey = "logger"
	// RequestIDKey is the gin context key for the request ID
	RequestIDKey = "requestID"
)

// Roles stored on profiles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
