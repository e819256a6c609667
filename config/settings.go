package config

import (
	"time"

	"github.com/architeacher/queryscope/pkg/circuitbreaker"
)

var (
	ServiceVersion string
	CommitSHA      string
)

type (
	Config struct {
		App      App                   `json:"app"`
		Database Database              `json:"database"`
		Logging  Logging               `json:"logging"`
		Query    Query                 `json:"query"`
		Breaker  circuitbreaker.Config `json:"breaker"`
	}

	App struct {
		ServiceName    string `envconfig:"APP_SERVICE_NAME" default:"queryscope" json:"service_name"`
		Environment    string `envconfig:"APP_ENVIRONMENT" default:"development" json:"environment"`
		ServiceVersion string `json:"service_version,omitempty"`
		CommitSHA      string `json:"commit_sha,omitempty"`
	}

	Database struct {
		Host            string        `envconfig:"POSTGRES_HOST" default:"postgres" json:"host"`
		Port            uint          `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"queryscope" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"password,omitempty"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"25" json:"max_connections"`
		MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"5" json:"min_connections"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h" json:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m" json:"max_conn_idle_time"`
	}

	Logging struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info" json:"level"`
		Format string `envconfig:"LOG_FORMAT" default:"json" json:"format"`
	}

	// Query bounds what a single list request may ask for.
	Query struct {
		DefaultLimit   uint64 `envconfig:"QUERY_DEFAULT_LIMIT" default:"25" json:"default_limit"`
		MaxLimit       uint64 `envconfig:"QUERY_MAX_LIMIT" default:"1000" json:"max_limit"`
		MaxOrderFields int    `envconfig:"QUERY_MAX_ORDER_FIELDS" default:"5" json:"max_order_fields"`
		MaxFilterNodes int    `envconfig:"QUERY_MAX_FILTER_NODES" default:"100" json:"max_filter_nodes"`
	}
)
