package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	PriceSource PriceSourceConfig `mapstructure:"price_source"`
	Arbitrage   ArbitrageConfig   `mapstructure:"arbitrage"`
	Trade       TradeConfig       `mapstructure:"trade"`
	Monitor     MonitorConfig     `mapstructure:"monitor"`
	Portfolio   PortfolioConfig   `mapstructure:"portfolio"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig defines the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PriceSourceConfig defines where reference prices come from and which venues are quoted.
type PriceSourceConfig struct {
	Provider          string   `mapstructure:"provider"`
	BaseURL           string   `mapstructure:"base_url"`
	TimeoutMS         int      `mapstructure:"timeout_ms"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second"`
	DexVenues         []string `mapstructure:"dex_venues"`
	CexVenues         []string `mapstructure:"cex_venues"`
}

// ArbitrageConfig defines the detection settings.
type ArbitrageConfig struct {
	FeePercent       float64 `mapstructure:"fee_percent"`
	EstimateQuantity float64 `mapstructure:"estimate_quantity"`
	HistoryCapacity  int     `mapstructure:"history_capacity"`
}

// TradeConfig defines the execution simulation settings.
type TradeConfig struct {
	FeePercent float64 `mapstructure:"fee_percent"`
	GasFeeUSD  float64 `mapstructure:"gas_fee_usd"`
}

// MonitorConfig bounds the market monitor loop.
type MonitorConfig struct {
	MaxIterations    int `mapstructure:"max_iterations"`
	IterationDelayMS int `mapstructure:"iteration_delay_ms"`
	UpdateLimit      int `mapstructure:"update_limit"`
}

// PortfolioConfig selects between ledger aggregation and synthetic statistics.
type PortfolioConfig struct {
	DemoMode bool `mapstructure:"demo_mode"`
}

// DatabaseConfig defines the optional PostgreSQL trade ledger.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// DSN builds a pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", d.User, d.Password, d.Host, d.Port, d.DBName)
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and environment apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	SetDefaults(v)

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ARBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}

	err = config.Validate()
	return
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("price_source.provider", "coingecko")
	v.SetDefault("price_source.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("price_source.timeout_ms", 5000)
	v.SetDefault("price_source.requests_per_second", 0.5)
	v.SetDefault("price_source.dex_venues", []string{"Uniswap V3", "PancakeSwap V3", "SushiSwap", "Curve"})
	v.SetDefault("price_source.cex_venues", []string{"Binance", "Coinbase", "Kraken", "OKX"})

	v.SetDefault("arbitrage.fee_percent", 0.3)
	v.SetDefault("arbitrage.estimate_quantity", 1000.0)
	v.SetDefault("arbitrage.history_capacity", 100)

	v.SetDefault("trade.fee_percent", 0.1)
	v.SetDefault("trade.gas_fee_usd", 5.0)

	v.SetDefault("monitor.max_iterations", 10)
	v.SetDefault("monitor.iteration_delay_ms", 100)
	v.SetDefault("monitor.update_limit", 20)

	v.SetDefault("portfolio.demo_mode", false)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arbscout")
	v.SetDefault("database.dbname", "arbscout")
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch c.PriceSource.Provider {
	case "coingecko", "static":
	default:
		return fmt.Errorf("unknown price provider %q", c.PriceSource.Provider)
	}
	if len(c.PriceSource.DexVenues) == 0 || len(c.PriceSource.CexVenues) == 0 {
		return errors.New("price_source venue lists must not be empty")
	}
	if c.Arbitrage.FeePercent < 0 || c.Trade.FeePercent < 0 || c.Trade.GasFeeUSD < 0 {
		return errors.New("fees must not be negative")
	}
	if c.Arbitrage.HistoryCapacity <= 0 {
		return errors.New("arbitrage.history_capacity must be positive")
	}
	if c.Monitor.MaxIterations <= 0 {
		return errors.New("monitor.max_iterations must be positive")
	}
	return nil
}
