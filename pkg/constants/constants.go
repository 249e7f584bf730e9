package constants

type ContextKey string

const (
	PoolKey     ContextKey = "pool"
	TxKey       ContextKey = "tx"
	TenantIDKey ContextKey = "tenant_id"
	UserIDKey   ContextKey = "user_id"
	LoggerKey   ContextKey = "logger"
)
