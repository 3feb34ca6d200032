// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Subgraph  SubgraphConfig  `mapstructure:"subgraph"`
	Orderbook OrderbookConfig `mapstructure:"orderbook"`
	Router    RouterConfig    `mapstructure:"router"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ChainConfig identifies the chain the pool snapshots belong to.
type ChainConfig struct {
	ID               uint64 `mapstructure:"id"`
	CurrencySymbol   string `mapstructure:"currency_symbol"`
	CurrencyDecimals uint8  `mapstructure:"currency_decimals"`
}

// SubgraphConfig holds the pool-data collaborator endpoint.
type SubgraphConfig struct {
	URL               string        `mapstructure:"url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// OrderbookConfig holds the listing/order-book collaborator endpoints.
type OrderbookConfig struct {
	URL          string        `mapstructure:"url"`
	WebSocketURL string        `mapstructure:"websocket_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// RouterConfig holds routing engine settings.
type RouterConfig struct {
	Collections     []string      `mapstructure:"collections"`
	MaxTradeSize    int           `mapstructure:"max_trade_size"`
	MaxSlippageBps  int64         `mapstructure:"max_slippage_bps"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	TUIMode         bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// CollectionAddresses returns the configured collections as typed addresses.
func (c *RouterConfig) CollectionAddresses() []common.Address {
	addrs := make([]common.Address, len(c.Collections))
	for i, s := range c.Collections {
		addrs[i] = common.HexToAddress(s)
	}
	return addrs
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("NFTR")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Config file is optional; env vars can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "NFTR_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "NFTR_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "NFTR_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("chain.id", "NFTR_CHAIN_ID", "CHAIN_ID")

	// Subgraph
	v.BindEnv("subgraph.url", "NFTR_SUBGRAPH_URL", "SUBGRAPH_URL")
	v.BindEnv("subgraph.api_key", "NFTR_SUBGRAPH_API_KEY", "SUBGRAPH_API_KEY")

	// Orderbook
	v.BindEnv("orderbook.url", "NFTR_ORDERBOOK_URL", "ORDERBOOK_URL")
	v.BindEnv("orderbook.websocket_url", "NFTR_ORDERBOOK_WS_URL", "ORDERBOOK_WS_URL")
	v.BindEnv("orderbook.api_key", "NFTR_ORDERBOOK_API_KEY", "ORDERBOOK_API_KEY")

	// Router
	v.BindEnv("router.collections", "NFTR_COLLECTIONS")
	v.BindEnv("router.max_trade_size", "NFTR_MAX_TRADE_SIZE")
	v.BindEnv("router.max_slippage_bps", "NFTR_MAX_SLIPPAGE_BPS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "NFTR_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "NFTR_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "NFTR_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "nftswap-router")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Chain defaults
	v.SetDefault("chain.id", 1)
	v.SetDefault("chain.currency_symbol", "ETH")
	v.SetDefault("chain.currency_decimals", 18)

	// Subgraph defaults
	v.SetDefault("subgraph.timeout", "10s")
	v.SetDefault("subgraph.requests_per_minute", 120)

	// Orderbook defaults
	v.SetDefault("orderbook.timeout", "10s")

	// Router defaults. The per-unit curve walk is O(count), so trade size is
	// capped well below anything that could get expensive across many pools.
	v.SetDefault("router.max_trade_size", 250)
	v.SetDefault("router.max_slippage_bps", 500)
	v.SetDefault("router.refresh_interval", "5s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "nftswap-router")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Subgraph.URL == "" {
		return fmt.Errorf("subgraph.url is required")
	}
	if c.Router.MaxTradeSize < 1 || c.Router.MaxTradeSize > 500 {
		return fmt.Errorf("router.max_trade_size must be in [1, 500], got %d", c.Router.MaxTradeSize)
	}
	if c.Router.MaxSlippageBps < 0 {
		return fmt.Errorf("router.max_slippage_bps cannot be negative")
	}
	for _, addr := range c.Router.Collections {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid collection address: %s", addr)
		}
	}
	return nil
}
