package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	CliMode    = "cli"
	ServerMode = "server"
)

type Config struct {
	Env                string            `mapstructure:"env"`
	LogLevel           string            `mapstructure:"log_level"`
	LogType            string            `mapstructure:"log_type"`
	ServiceName        string            `mapstructure:"service_name"`
	Port               string            `mapstructure:"port"`
	Version            string            `mapstructure:"version"`
	Mode               string            `mapstructure:"mode"`
	TargetDomain       string            `mapstructure:"target_domain"`
	CorsMaxAgeHours    time.Duration     `mapstructure:"cors_max_age_hours"`
	ApiUrlPath         string            `mapstructure:"api_url_path"`
	MaxBodySize        int64             `mapstructure:"max_body_size"`
	ProbeSettings      *ProbeConfig      `mapstructure:"probe"`
	OpenAiSettings     *OpenAiConfig     `mapstructure:"openai"`
	CacheSettings      *CacheConfig      `mapstructure:"cache"`
	DbSettings         *DatabaseConfig   `mapstructure:"database"`
	HttpClientSettings *HttpClientConfig `mapstructure:"http_client"`
	TelemetrySettings  *TelemetryConfig  `mapstructure:"telemetry"`
}

type ProbeConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TermsTimeout  time.Duration `mapstructure:"terms_timeout"`
	TermsMaxChars int           `mapstructure:"terms_max_chars"`
	PreviewChars  int           `mapstructure:"preview_chars"`
}

type OpenAiConfig struct {
	ApiKey      string        `mapstructure:"api_key"`
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	// Type is one of "memcached", "local" or empty to disable caching.
	Type            string        `mapstructure:"type"`
	Servers         []string      `mapstructure:"servers"`
	TtlForRobotsTxt time.Duration `mapstructure:"ttl_for_robots_txt"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
}

type HttpClientConfig struct {
	RequestTimeout            time.Duration `mapstructure:"request_timeout"`
	MaxIdleConnections        int           `mapstructure:"max_idle_connections"`
	MaxIdleConnectionsPerHost int           `mapstructure:"max_idle_connections_per_host"`
	MaxConnectionsPerHost     int           `mapstructure:"max_connections_per_host"`
	IdleConnectionTimeout     time.Duration `mapstructure:"idle_connection_timeout"`
	TlsHandshakeTimeout       time.Duration `mapstructure:"tls_handshake_timeout"`
	DialTimeout               time.Duration `mapstructure:"dial_timeout"`
	DialKeepAlive             time.Duration `mapstructure:"dial_keep_alive"`
	TlsInsecureSkipVerify     bool          `mapstructure:"tls_insecure_skip_verify"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	CollectorUrl string `mapstructure:"collector_url"`
}

func MustLoad() *Config {
	// .env is optional. Variables already present in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file.", slog.String("err", err.Error()))
	}

	viper.AddConfigPath(path.Join("."))
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	if err := viper.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		slog.Error("failed to bind OPENAI_API_KEY.", slog.String("err", err.Error()))
		os.Exit(1)
	}

	err := viper.ReadInConfig()
	if err != nil {
		slog.Error("can't initialize config file.", slog.String("err", err.Error()))
		os.Exit(1)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("error unmarshalling viper config.", slog.String("err", err.Error()))
		os.Exit(1)
	}

	return &cfg
}

func setDefaults() {
	viper.SetDefault("mode", CliMode)
	viper.SetDefault("target_domain", "https://www.yourdomain.com")
	viper.SetDefault("api_url_path", "/api/v1")
	viper.SetDefault("max_body_size", 1)
	viper.SetDefault("probe.timeout", 5*time.Second)
	viper.SetDefault("probe.terms_timeout", 10*time.Second)
	viper.SetDefault("probe.terms_max_chars", 7000)
	viper.SetDefault("probe.preview_chars", 1000)
	viper.SetDefault("openai.endpoint", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("openai.timeout", 30*time.Second)
	viper.SetDefault("telemetry.enabled", false)
}
