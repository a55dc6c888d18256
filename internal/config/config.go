package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Драйверы хранилища
const (
	DriverPostgres = "postgres" // lib/pq
	DriverPgx      = "pgx"      // jackc/pgx через database/sql
	DriverMemory   = "memory"   // in-process хранилище для локального запуска
)

// Транспорты уведомлений
const (
	NotifierLog      = "log"
	NotifierKafka    = "kafka"
	NotifierRabbitMQ = "rabbitmq"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Tracing       TracingConfig       `toml:"tracing"`
	Redis         RedisConfig         `toml:"redis"`
	Notifications NotificationsConfig `toml:"notifications"`
	Payments      PaymentsConfig      `toml:"payments"`
	Workflow      WorkflowConfig      `toml:"workflow"`
	Calendar      CalendarConfig      `toml:"calendar"`
	Catalog       []CatalogEntry      `toml:"catalog"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения к PostgreSQL, подходит и для lib/pq, и для pgx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	ServiceName  string  `toml:"service_name"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// RedisConfig если Addr пустой, блокировки бронирований держатся в памяти процесса
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type NotificationsConfig struct {
	Transport    string   `toml:"transport"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	RabbitMQURL  string   `toml:"rabbitmq_url"`
	RabbitQueue  string   `toml:"rabbitmq_queue"`
	Timeout      int      `toml:"timeout"` // секунды
}

// PaymentsConfig если SecretKey пустой, платежная сессия создается заглушкой для локального запуска
// ResultsToken защищает POST /payments/results, пустое значение отключает проверку
type PaymentsConfig struct {
	Provider      string `toml:"provider"`
	SecretKey     string `toml:"secret_key"`
	WebhookSecret string `toml:"webhook_secret"`
	ResultsToken  string `toml:"results_token"`
	Currency      string `toml:"currency"`
	SuccessURL    string `toml:"success_url"`
	CancelURL     string `toml:"cancel_url"`
}

type WorkflowConfig struct {
	StaleDraftMinutes   int `toml:"stale_draft_minutes"`
	ReapIntervalSeconds int `toml:"reap_interval_seconds"`
	ReapBatchSize       int `toml:"reap_batch_size"`
	LockTTLSeconds      int `toml:"lock_ttl_seconds"`
	LockWaitSeconds     int `toml:"lock_wait_seconds"`
}

// StaleDraftAfter возраст, после которого неоплаченный черновик истекает
func (w WorkflowConfig) StaleDraftAfter() time.Duration {
	return time.Duration(w.StaleDraftMinutes) * time.Minute
}

// ReapInterval период запуска очистки черновиков
func (w WorkflowConfig) ReapInterval() time.Duration {
	return time.Duration(w.ReapIntervalSeconds) * time.Second
}

// LockTTL время жизни распределенной блокировки бронирования
func (w WorkflowConfig) LockTTL() time.Duration {
	return time.Duration(w.LockTTLSeconds) * time.Second
}

// LockWait сколько ждать освобождения блокировки
func (w WorkflowConfig) LockWait() time.Duration {
	return time.Duration(w.LockWaitSeconds) * time.Second
}

type CalendarConfig struct {
	DayStart         string `toml:"day_start"`
	DayEnd           string `toml:"day_end"`
	SlotWidthMinutes int    `toml:"slot_width_minutes"`
}

// CatalogEntry услуга каталога
type CatalogEntry struct {
	Code                string `toml:"code"`
	Name                string `toml:"name"`
	Price               string `toml:"price"` // строкой, чтобы не терять точность
	BaseDurationMinutes int    `toml:"base_duration_minutes"`
}

// Load читает конфигурацию из TOML файла
// Переменные окружения (в том числе из .env) переопределяют секреты и адреса
func Load(path string) (*Config, error) {
	// .env опционален, в production переменные приходят из окружения
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse разбирает конфигурацию из строки (используется в тестах и утилитах)
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	applyEnv(&cfg)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Payments.SecretKey, "STRIPE_SECRET_KEY")
	setString(&cfg.Payments.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&cfg.Payments.ResultsToken, "PAYMENTS_RESULTS_TOKEN")

	setString(&cfg.Notifications.Transport, "NOTIFICATIONS_TRANSPORT")
	setString(&cfg.Notifications.RabbitMQURL, "RABBITMQ_URL")
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Notifications.KafkaBrokers = splitList(v)
	}

	setString(&cfg.Tracing.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "booking_ops"
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "smc-booking-ops"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	if c.Notifications.Transport == "" {
		c.Notifications.Transport = NotifierLog
	}
	if c.Notifications.KafkaTopic == "" {
		c.Notifications.KafkaTopic = "booking.notifications"
	}
	if c.Notifications.RabbitQueue == "" {
		c.Notifications.RabbitQueue = "booking.notifications"
	}
	if c.Notifications.Timeout == 0 {
		c.Notifications.Timeout = 5
	}

	if c.Payments.Provider == "" {
		c.Payments.Provider = "stripe"
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = "usd"
	}

	if c.Workflow.StaleDraftMinutes == 0 {
		c.Workflow.StaleDraftMinutes = 30
	}
	if c.Workflow.ReapIntervalSeconds == 0 {
		c.Workflow.ReapIntervalSeconds = 60
	}
	if c.Workflow.ReapBatchSize == 0 {
		c.Workflow.ReapBatchSize = 100
	}
	if c.Workflow.LockTTLSeconds == 0 {
		c.Workflow.LockTTLSeconds = 10
	}
	if c.Workflow.LockWaitSeconds == 0 {
		c.Workflow.LockWaitSeconds = 5
	}

	if c.Calendar.DayStart == "" {
		c.Calendar.DayStart = "08:00"
	}
	if c.Calendar.DayEnd == "" {
		c.Calendar.DayEnd = "18:00"
	}
	if c.Calendar.SlotWidthMinutes == 0 {
		c.Calendar.SlotWidthMinutes = 30
	}
}

// Validate проверяет конфигурацию после применения значений по умолчанию
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database host and dbname are required for driver %s", ErrInvalidConfig, c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	switch c.Notifications.Transport {
	case NotifierLog:
	case NotifierKafka:
		if len(c.Notifications.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: kafka transport requires kafka_brokers", ErrInvalidConfig)
		}
	case NotifierRabbitMQ:
		if c.Notifications.RabbitMQURL == "" {
			return fmt.Errorf("%w: rabbitmq transport requires rabbitmq_url", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifications transport %q", ErrInvalidConfig, c.Notifications.Transport)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing sample_ratio must be within [0, 1]", ErrInvalidConfig)
	}

	start, err := types.NewTimeStringFromString(c.Calendar.DayStart)
	if err != nil {
		return fmt.Errorf("%w: calendar day_start: %v", ErrInvalidConfig, err)
	}
	end, err := types.NewTimeStringFromString(c.Calendar.DayEnd)
	if err != nil {
		return fmt.Errorf("%w: calendar day_end: %v", ErrInvalidConfig, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: calendar day_start must be before day_end", ErrInvalidConfig)
	}
	if c.Calendar.SlotWidthMinutes < 5 {
		return fmt.Errorf("%w: calendar slot_width_minutes must be at least 5", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Catalog))
	for _, e := range c.Catalog {
		if strings.TrimSpace(e.Code) == "" {
			return fmt.Errorf("%w: catalog entry without code", ErrInvalidConfig)
		}
		if _, dup := seen[e.Code]; dup {
			return fmt.Errorf("%w: duplicate catalog code %q", ErrInvalidConfig, e.Code)
		}
		seen[e.Code] = struct{}{}

		price, err := decimal.NewFromString(e.Price)
		if err != nil || price.IsNegative() {
			return fmt.Errorf("%w: catalog %q has invalid price %q", ErrInvalidConfig, e.Code, e.Price)
		}
		if e.BaseDurationMinutes <= 0 {
			return fmt.Errorf("%w: catalog %q requires base_duration_minutes", ErrInvalidConfig, e.Code)
		}
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
