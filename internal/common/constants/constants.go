package constants

import "time"

const (
	UsernameMaxLength  = 64
	PasswordMaxLength  = 72
	NameMaxLength      = 128
	JWTSecretMinLength = 32
	BcryptCost         = 12

	DefaultMaxRequestSize = 1 << 20

	DefaultHTTPPort        = "5000"
	DefaultEnv             = "production"
	DefaultTokenTTL        = 7 * 24 * time.Hour
	DefaultRequestTimeout  = 5 * time.Second
	DefaultAllowedOrigins  = "http://localhost:5173,http://127.0.0.1:5173"
	DefaultLogLevel        = "INFO"
	DevelopmentJWTSecret   = "development-only-signing-secret-change-me"
	EnvDevelopment         = "development"
	ConfigFileEnv          = "INVENTORY_CONFIG_FILE"
	ConfigEnvPrefix        = "INVENTORY_"
	ApplicationName        = "gnr-inventory"
	DeletedEquipmentNotice = "Equipment deleted successfully"
	RootBanner             = "Backend is running - GNR Surgicals API"

	TopExpensiveLimit        = 5
	LowAvailabilityLimit     = 5
	LowAvailabilityThreshold = 20.0

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 2
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBMigrationTimeout    = time.Minute

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerWriteGrace        = 5 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 10 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 10
	RateLimitRegisterRequestsPerSecond = 0.2
	RateLimitRegisterBurst             = 5
	RateLimitGeneralRequestsPerSecond  = 50.0
	RateLimitGeneralBurst              = 100
	RateLimitCleanupInterval           = 5 * time.Minute

	WebSocketWriteWait       = 10 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketPingPeriod      = (WebSocketPongWait * 9) / 10
	WebSocketMaxMessageSize  = 4096
	WebSocketSendBufSize     = 64
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
