// Package config loads application configuration from an optional YAML
// file with environment variable overrides
// YAMLファイルと環境変数からアプリケーション設定を読み込み
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written either as
// strings like "30s" or as integer nanoseconds
// YAML上で"30s"形式の文字列とナノ秒整数の両方を受け付けるDuration
type Duration time.Duration

// UnmarshalYAML decodes a duration from a string or integer YAML scalar
// 文字列または整数のYAMLスカラーからdurationをデコード
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case int:
		*d = Duration(time.Duration(v))
	case int64:
		*d = Duration(time.Duration(v))
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("無効なduration値です: %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("無効なduration値です: %v", raw)
	}
	return nil
}

// MarshalYAML renders the duration in the "30s" string form
// durationを"30s"形式の文字列で出力
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds application configuration
// アプリケーション設定を保持
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	Redis     RedisConfig     `yaml:"redis"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig holds database configuration
// データベース設定を保持
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// APIConfig holds API server configuration
// APIサーバー設定を保持
type APIConfig struct {
	Port          int      `yaml:"port"`
	ReadTimeout   Duration `yaml:"read_timeout"`
	WriteTimeout  Duration `yaml:"write_timeout"`
	IdleTimeout   Duration `yaml:"idle_timeout"`
	EnableCORS    bool     `yaml:"enable_cors"`
	EnableMetrics bool     `yaml:"enable_metrics"`
}

// RedisConfig holds the optional summary cache configuration. An empty
// address disables the cache.
// 集計キャッシュ設定を保持（アドレス未設定でキャッシュ無効）
type RedisConfig struct {
	Addr            string   `yaml:"addr"`
	DB              int      `yaml:"db"`
	SummaryCacheTTL Duration `yaml:"summary_cache_ttl"`
}

// DashboardConfig holds dashboard-specific configuration
// ダッシュボード固有の設定を保持
type DashboardConfig struct {
	RecentOrderWindowHours int      `yaml:"recent_order_window_hours"`
	OperatingExpenseRatio  float64  `yaml:"operating_expense_ratio"`
	OverstockThreshold     int64    `yaml:"overstock_threshold"`
	UnderstockThreshold    int64    `yaml:"understock_threshold"`
	PricingHighStock       int64    `yaml:"pricing_high_stock"`
	PricingLowStock        int64    `yaml:"pricing_low_stock"`
	PricingSlowSales       int64    `yaml:"pricing_slow_sales"`
	PricingFastSales       int64    `yaml:"pricing_fast_sales"`
	LiveActivityInterval   Duration `yaml:"live_activity_interval"`
}

// LoggingConfig holds logging configuration
// ログ設定を保持
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stdout, file
}

// Load loads configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variable overrides
// 設定を読み込み（デフォルト → YAMLファイル → 環境変数の順に上書き）
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// バリデーション
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定バリデーションに失敗しました: %w", err)
	}

	return cfg, nil
}

// defaults returns the built-in configuration
// 組み込みのデフォルト設定を返す
func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "dashboard",
			Password: "password",
			DBName:   "dashboard_db",
			SSLMode:  "disable",
		},
		API: APIConfig{
			Port:          8080,
			ReadTimeout:   Duration(30 * time.Second),
			WriteTimeout:  Duration(30 * time.Second),
			IdleTimeout:   Duration(60 * time.Second),
			EnableCORS:    true,
			EnableMetrics: true,
		},
		Redis: RedisConfig{
			Addr:            "",
			DB:              0,
			SummaryCacheTTL: Duration(30 * time.Second),
		},
		Dashboard: DashboardConfig{
			RecentOrderWindowHours: 72,
			OperatingExpenseRatio:  0.3,
			OverstockThreshold:     400,
			UnderstockThreshold:    20,
			PricingHighStock:       300,
			PricingLowStock:        50,
			PricingSlowSales:       10,
			PricingFastSales:       20,
			LiveActivityInterval:   Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// loadFile merges a YAML configuration file into the config
// YAML設定ファイルを読み込んでマージ
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイル読み込みに失敗しました: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}
	return nil
}

// applyEnv overrides configuration from environment variables
// 環境変数で設定を上書き
func (c *Config) applyEnv() {
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.API.Port = getEnvAsInt("API_PORT", c.API.Port)
	c.API.ReadTimeout = getEnvAsDuration("API_READ_TIMEOUT", c.API.ReadTimeout)
	c.API.WriteTimeout = getEnvAsDuration("API_WRITE_TIMEOUT", c.API.WriteTimeout)
	c.API.IdleTimeout = getEnvAsDuration("API_IDLE_TIMEOUT", c.API.IdleTimeout)
	c.API.EnableCORS = getEnvAsBool("API_ENABLE_CORS", c.API.EnableCORS)
	c.API.EnableMetrics = getEnvAsBool("API_ENABLE_METRICS", c.API.EnableMetrics)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.SummaryCacheTTL = getEnvAsDuration("REDIS_SUMMARY_CACHE_TTL", c.Redis.SummaryCacheTTL)

	c.Dashboard.RecentOrderWindowHours = getEnvAsInt("DASHBOARD_RECENT_ORDER_WINDOW_HOURS", c.Dashboard.RecentOrderWindowHours)
	c.Dashboard.OperatingExpenseRatio = getEnvAsFloat("DASHBOARD_OPERATING_EXPENSE_RATIO", c.Dashboard.OperatingExpenseRatio)
	c.Dashboard.OverstockThreshold = getEnvAsInt64("DASHBOARD_OVERSTOCK_THRESHOLD", c.Dashboard.OverstockThreshold)
	c.Dashboard.UnderstockThreshold = getEnvAsInt64("DASHBOARD_UNDERSTOCK_THRESHOLD", c.Dashboard.UnderstockThreshold)
	c.Dashboard.PricingHighStock = getEnvAsInt64("DASHBOARD_PRICING_HIGH_STOCK", c.Dashboard.PricingHighStock)
	c.Dashboard.PricingLowStock = getEnvAsInt64("DASHBOARD_PRICING_LOW_STOCK", c.Dashboard.PricingLowStock)
	c.Dashboard.PricingSlowSales = getEnvAsInt64("DASHBOARD_PRICING_SLOW_SALES", c.Dashboard.PricingSlowSales)
	c.Dashboard.PricingFastSales = getEnvAsInt64("DASHBOARD_PRICING_FAST_SALES", c.Dashboard.PricingFastSales)
	c.Dashboard.LiveActivityInterval = getEnvAsDuration("DASHBOARD_LIVE_ACTIVITY_INTERVAL", c.Dashboard.LiveActivityInterval)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.Logging.Output = getEnv("LOG_OUTPUT", c.Logging.Output)
}

// Validate validates the configuration
// 設定をバリデーション
func (c *Config) Validate() error {
	// データベース設定チェック
	if c.Database.Host == "" {
		return fmt.Errorf("データベースホストが指定されていません")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("無効なデータベースポート: %d", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("データベースユーザーが指定されていません")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("データベース名が指定されていません")
	}

	// API設定チェック
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("無効なAPIポート: %d", c.API.Port)
	}

	// ダッシュボード設定チェック
	if c.Dashboard.RecentOrderWindowHours <= 0 {
		return fmt.Errorf("直近発注ウィンドウは正の値である必要があります: %d", c.Dashboard.RecentOrderWindowHours)
	}
	if c.Dashboard.OperatingExpenseRatio < 0 || c.Dashboard.OperatingExpenseRatio > 1 {
		return fmt.Errorf("営業利益推定比率は0〜1の範囲である必要があります: %f", c.Dashboard.OperatingExpenseRatio)
	}
	if c.Dashboard.UnderstockThreshold < 0 {
		return fmt.Errorf("低在庫閾値は0以上である必要があります: %d", c.Dashboard.UnderstockThreshold)
	}
	if c.Dashboard.OverstockThreshold <= c.Dashboard.UnderstockThreshold {
		return fmt.Errorf("過剰在庫閾値は低在庫閾値より大きい必要があります: %d <= %d",
			c.Dashboard.OverstockThreshold, c.Dashboard.UnderstockThreshold)
	}

	// ログ設定チェック
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("無効なログレベル: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "console": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("無効なログフォーマット: %s", c.Logging.Format)
	}

	return nil
}

// DSN generates PostgreSQL Data Source Name
// PostgreSQLデータソース名を生成
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// ヘルパー関数

// getEnv gets environment variable with default value
// デフォルト値付きで環境変数を取得
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
// デフォルト値付きで環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 gets environment variable as int64 with default value
// デフォルト値付きで環境変数をint64として取得
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if int64Value, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int64Value
		}
	}
	return defaultValue
}

// getEnvAsFloat gets environment variable as float64 with default value
// デフォルト値付きで環境変数をfloat64として取得
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets environment variable as boolean with default value
// デフォルト値付きで環境変数をbooleanとして取得
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets environment variable as duration with default value
// デフォルト値付きで環境変数をdurationとして取得
func getEnvAsDuration(key string, defaultValue Duration) Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return Duration(duration)
		}
	}
	return defaultValue
}
