package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Префикс переменных окружения, переопределяющих значения из файла
const envPrefix = "PARKING_"

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Tracing  TracingConfig  `toml:"tracing"`
	Parking  ParkingConfig  `toml:"parking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл базы для sqlite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled     bool    `toml:"enabled"`
	Endpoint    string  `toml:"endpoint"`
	Insecure    bool    `toml:"insecure"`
	ServiceName string  `toml:"service_name"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// ParkingConfig доменные настройки стоянки
type ParkingConfig struct {
	// DefaultRatePerHour тариф, если ставка не передана при выезде
	DefaultRatePerHour float64 `toml:"default_rate_per_hour"`
	// OverflowPolicy поведение при освобождении места сверх вместимости: reject | clamp
	OverflowPolicy string `toml:"overflow_policy"`
	// InitialCapacity создаёт стоянку при старте, если она ещё не настроена (0 - не создавать)
	InitialCapacity int `toml:"initial_capacity"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "parking",
			SSLMode:         "disable",
			Path:            "parking.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "parking-service",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4318",
			Insecure:    true,
			ServiceName: "parking-service",
			SampleRatio: 1,
		},
		Parking: ParkingConfig{
			DefaultRatePerHour: 5,
			OverflowPolicy:     domain.OverflowPolicyReject,
		},
	}
}

// Load читает TOML файл, подгружает .env (если есть) и применяет переменные PARKING_*
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, ".env")
}

// LoadWithEnvFile как Load, но с явным путём к env-файлу. Отсутствующий env-файл не ошибка.
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s%s must be integer: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	setString("DB_DRIVER", &c.Database.Driver)
	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("DB_SSLMODE", &c.Database.SSLMode)
	setString("DB_PATH", &c.Database.Path)
	setString("LOG_LEVEL", &c.Logs.Level)
	setString("OVERFLOW_POLICY", &c.Parking.OverflowPolicy)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}

	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_RATE_PER_HOUR"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %sDEFAULT_RATE_PER_HOUR must be a number: %w", envPrefix, err)
		}
		c.Parking.DefaultRatePerHour = rate
	}

	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("database.host and database.dbname are required for postgres"))
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver))
	}

	if rate := c.Parking.DefaultRatePerHour; math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		errs = append(errs, fmt.Errorf("parking.default_rate_per_hour must be a finite number >= 0, got %v", rate))
	}
	if c.Parking.InitialCapacity < 0 {
		errs = append(errs, fmt.Errorf("parking.initial_capacity must be >= 0, got %d", c.Parking.InitialCapacity))
	}
	if p := c.Parking.OverflowPolicy; p != domain.OverflowPolicyReject && p != domain.OverflowPolicyClamp {
		errs = append(errs, fmt.Errorf("parking.overflow_policy must be %q or %q, got %q",
			domain.OverflowPolicyReject, domain.OverflowPolicyClamp, p))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}
	if c.Tracing.Enabled && (c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1) {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1], got %v", c.Tracing.SampleRatio))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", d.Path)
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}
