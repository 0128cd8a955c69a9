package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de sigmon.
type Config struct {
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Trading   TradingConfig   `yaml:"trading"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Storage   StorageConfig   `yaml:"storage"`
	Report    ReportConfig    `yaml:"report"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// EvaluatorConfig controla la evaluación offline de señales.
type EvaluatorConfig struct {
	HorizonHours   int     `yaml:"horizon_hours"`   // 24 por defecto, máx 48
	BarInterval    string  `yaml:"bar_interval"`    // M1 | M5
	EntryTolerance float64 `yaml:"entry_tolerance"` // margen antes de preferir PENDING
}

// MonitorConfig controla el seguimiento live de trades.
type MonitorConfig struct {
	PollIntervalSeconds int     `yaml:"poll_interval_seconds"`
	CloseTolerance      float64 `yaml:"close_tolerance"` // |close - tp| ≤ tol ⇒ TP
	MaxConcurrent       int     `yaml:"max_concurrent"`
}

// TradingConfig controla la ejecución de órdenes.
type TradingConfig struct {
	Volumes           map[string]float64 `yaml:"volumes"` // símbolo → lote
	DefaultVolume     float64            `yaml:"default_volume"`
	RevalidatePending bool               `yaml:"revalidate_pending"`
}

// GatewayConfig apunta al bridge HTTP de MetaTrader.
type GatewayConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StorageConfig controla dónde se persisten los veredictos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// ReportConfig programa el resumen periódico de resultados.
type ReportConfig struct {
	CronSpec string `yaml:"cron_spec"` // "@hourly", "0 8 * * *", ...
}

// MetricsConfig controla el endpoint Prometheus.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // vacío desactiva el endpoint
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Horizon devuelve el horizonte de evaluación como time.Duration.
func (c *Config) Horizon() time.Duration {
	return time.Duration(c.Evaluator.HorizonHours) * time.Hour
}

// PollInterval devuelve el intervalo de polling como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.PollIntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MT5_GATEWAY_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("SIGMON_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Evaluator.HorizonHours <= 0 {
		cfg.Evaluator.HorizonHours = 24
	}
	if cfg.Evaluator.HorizonHours > 48 {
		cfg.Evaluator.HorizonHours = 48
	}
	if cfg.Evaluator.BarInterval == "" {
		cfg.Evaluator.BarInterval = "M1"
	}
	if cfg.Monitor.PollIntervalSeconds <= 0 {
		cfg.Monitor.PollIntervalSeconds = 10
	}
	if cfg.Monitor.CloseTolerance <= 0 {
		cfg.Monitor.CloseTolerance = 1.0
	}
	if cfg.Monitor.MaxConcurrent <= 0 {
		cfg.Monitor.MaxConcurrent = 32
	}
	if cfg.Trading.DefaultVolume <= 0 {
		cfg.Trading.DefaultVolume = 0.01
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "sigmon.db"
	}
	if cfg.Report.CronSpec == "" {
		cfg.Report.CronSpec = "@hourly"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
