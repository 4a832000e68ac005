package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	MySQL             MySQLConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Redsys            RedsysConfig
	Payments          PaymentsConfig
	Jobs              JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

// RedsysConfig holds the merchant settings of the Redsys provider. MerchantKey
// is the Base64 secret shared with the gateway and must never be logged.
type RedsysConfig struct {
	Environment             string
	MerchantCode            string
	MerchantKey             string
	MerchantName            string
	Terminal                int64
	Currency                string
	TransactionType         string
	Language                string
	PayMethods              string
	ProviderCallbackBaseURL string
	CheckoutBaseURL         string
	SuccessURL              string
	FailureURL              string
}

type PaymentsConfig struct {
	CallbackMaxAttempts   int32
	CallbackRetryInterval time.Duration
	CallbackHTTPTimeout   time.Duration
	PendingTimeout        time.Duration
	JobBatchSize          int32
}

type JobsConfig struct {
	CallbackDispatchInterval time.Duration
	ExpirePendingInterval    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "redsys-payments-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: getEnv("AUTH_SERVICE_GRPC_ADDR", "localhost:9090"),
		},
		Redsys: LoadRedsys(),
		Payments: PaymentsConfig{
			CallbackMaxAttempts:   int32(getIntEnv("PAYMENTS_CALLBACK_MAX_ATTEMPTS", 10)),
			CallbackRetryInterval: getMinutesEnv("PAYMENTS_CALLBACK_RETRY_INTERVAL_MINUTES", 5*time.Minute),
			CallbackHTTPTimeout:   getSecondsEnv("PAYMENTS_CALLBACK_HTTP_TIMEOUT_SECONDS", 10*time.Second),
			PendingTimeout:        getMinutesEnv("PAYMENTS_PENDING_TIMEOUT_MINUTES", 60*time.Minute),
			JobBatchSize:          int32(getIntEnv("PAYMENTS_JOB_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			CallbackDispatchInterval: getMinutesEnv("PAYMENTS_CALLBACK_DISPATCH_INTERVAL_MINUTES", time.Minute),
			ExpirePendingInterval:    getMinutesEnv("PAYMENTS_EXPIRE_PENDING_INTERVAL_MINUTES", 5*time.Minute),
		},
	}, nil
}

// LoadRedsys reads only the Redsys block. It does not need a database and is
// used by the operator commands.
func LoadRedsys() RedsysConfig {
	_ = godotenv.Load()

	return RedsysConfig{
		Environment:             getEnv("REDSYS_ENVIRONMENT", "test"),
		MerchantCode:            getEnv("REDSYS_MERCHANT_CODE", ""),
		MerchantKey:             getEnv("REDSYS_MERCHANT_KEY", ""),
		MerchantName:            getEnv("REDSYS_MERCHANT_NAME", ""),
		Terminal:                int64(getIntEnv("REDSYS_TERMINAL", 1)),
		Currency:                getEnv("REDSYS_CURRENCY", "978"),
		TransactionType:         getEnv("REDSYS_TRANSACTION_TYPE", "0"),
		Language:                getEnv("REDSYS_LANGUAGE", "001"),
		PayMethods:              getEnv("REDSYS_PAY_METHODS", "C"),
		ProviderCallbackBaseURL: getEnv("PAYMENTS_PROVIDER_CALLBACK_BASE_URL", ""),
		CheckoutBaseURL:         getEnv("PAYMENTS_CHECKOUT_BASE_URL", ""),
		SuccessURL:              getEnv("REDSYS_SUCCESS_URL", ""),
		FailureURL:              getEnv("REDSYS_FAILURE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
