package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/messenger/frontend/internal/logger"
)

// loadEnv читает .env только вне production (в контейнере/prod конфиг только из env).
// Поднимаемся вверх по каталогам, чтобы .env находился и при запуске из services/*.
func loadEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			// godotenv.Load не перезаписывает уже заданные переменные окружения.
			if err := godotenv.Load(path); err != nil {
				logger.Errorf("config: ошибка чтения %s: %v", path, err)
			}
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// AuthMode — способ проверки учётных данных клиентом.
type AuthMode string

const (
	// AuthMock — локальная заглушка: успешен только контрольный пароль.
	AuthMock AuthMode = "mock"
	// AuthRemote — POST /auth/login на бэкенд.
	AuthRemote AuthMode = "remote"
)

// ClientConfig — настройки клиента (состояние, симуляция задержек, API).
type ClientConfig struct {
	APIBaseURL       string
	AuthMode         AuthMode
	MockPassword     string
	SimulatedDelay   time.Duration
	ReadReceiptDelay time.Duration
	TypingWindow     time.Duration
	TypingDuration   time.Duration
	RequestTimeout   time.Duration
}

// TokenStoreConfig — где хранится bearer-токен (аналог localStorage).
type TokenStoreConfig struct {
	Kind      string // file | memory | redis
	Path      string
	RedisURL  string
	Namespace string
}

// ServerConfig — настройки эталонного бэкенда (services/api).
type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	UploadDir          string
	MaxUploadSize      int64
	CORSAllowedOrigins string
	JWTSecret          string
	TokenTTL           time.Duration
	RateLimitPerMinute int
}

// Config содержит настройки клиента, хранилища токена, бэкенда и логирования.
// Приоритет: переменные окружения > YAML-файл > значения по умолчанию.
type Config struct {
	Client     ClientConfig
	TokenStore TokenStoreConfig
	Server     ServerConfig

	LogLevel string
	LogFile  string
}

// yamlConfig — промежуточная структура для парсинга YAML.
type yamlConfig struct {
	APIBaseURL         string `yaml:"api_base_url"`
	AuthMode           string `yaml:"auth_mode"`
	MockPassword       string `yaml:"mock_password"`
	SimulatedDelayMS   int    `yaml:"simulated_delay_ms"`
	ReadReceiptDelayMS int    `yaml:"read_receipt_delay_ms"`
	TypingWindowMS     int    `yaml:"typing_window_ms"`
	TypingDurationMS   int    `yaml:"typing_duration_ms"`
	RequestTimeout     int    `yaml:"request_timeout"`

	TokenStore     string `yaml:"token_store"`
	TokenPath      string `yaml:"token_path"`
	RedisURL       string `yaml:"redis_url"`
	TokenNamespace string `yaml:"token_namespace"`

	ServerAddr         string `yaml:"server_addr"`
	ReadTimeout        int    `yaml:"read_timeout"`
	WriteTimeout       int    `yaml:"write_timeout"`
	IdleTimeout        int    `yaml:"idle_timeout"`
	UploadDir          string `yaml:"upload_dir"`
	MaxUploadSizeMB    int    `yaml:"max_upload_size_mb"`
	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`
	JWTSecret          string `yaml:"jwt_secret"`
	TokenTTLHours      int    `yaml:"token_ttl_hours"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func defaults() yamlConfig {
	return yamlConfig{
		APIBaseURL:         "http://localhost:5000/api",
		AuthMode:           string(AuthMock),
		MockPassword:       "password",
		SimulatedDelayMS:   800,
		ReadReceiptDelayMS: 2000,
		TypingWindowMS:     3000,
		TypingDurationMS:   2000,
		RequestTimeout:     15,
		TokenStore:         "file",
		TokenNamespace:     "default",
		RedisURL:           "redis://localhost:6379",
		ServerAddr:         ":5000",
		ReadTimeout:        15,
		WriteTimeout:       15,
		IdleTimeout:        60,
		UploadDir:          "./uploads",
		MaxUploadSizeMB:    5,
		CORSAllowedOrigins: "*",
		JWTSecret:          "dev-secret-change-me",
		TokenTTLHours:      24,
		RateLimitPerMinute: 300,
		LogLevel:           "info",
	}
}

// Load загружает конфигурацию.
// Сначала подгружаются переменные из .env (если есть), затем YAML и env (env имеет приоритет).
func Load() *Config {
	loadEnv()
	yc := defaults()

	paths := []string{os.Getenv("CONFIG_PATH"), "config/client.yaml", "config/api.yaml"}
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := parse(data, &yc); err != nil {
			logger.Errorf("config: ошибка парсинга %s: %v (используются значения по умолчанию)", path, err)
		} else {
			logger.Infof("config: загружен %s", path)
		}
		break
	}
	return fromYAML(yc)
}

// parse разбирает YAML поверх уже заполненных значений (незаданные ключи не трогаются).
func parse(data []byte, yc *yamlConfig) error {
	return yaml.Unmarshal(data, yc)
}

func fromYAML(yc yamlConfig) *Config {
	tokenPath := envStr("TOKEN_PATH", yc.TokenPath)
	if tokenPath == "" {
		tokenPath = defaultTokenPath()
	}
	mode := AuthMode(strings.ToLower(envStr("AUTH_MODE", yc.AuthMode)))
	if mode != AuthRemote {
		mode = AuthMock
	}

	cfg := &Config{
		Client: ClientConfig{
			APIBaseURL:       strings.TrimSuffix(envStr("API_BASE_URL", yc.APIBaseURL), "/"),
			AuthMode:         mode,
			MockPassword:     envStr("MOCK_PASSWORD", yc.MockPassword),
			SimulatedDelay:   ms(envInt("SIMULATED_DELAY_MS", yc.SimulatedDelayMS)),
			ReadReceiptDelay: ms(envInt("READ_RECEIPT_DELAY_MS", yc.ReadReceiptDelayMS)),
			TypingWindow:     ms(envInt("TYPING_WINDOW_MS", yc.TypingWindowMS)),
			TypingDuration:   ms(envInt("TYPING_DURATION_MS", yc.TypingDurationMS)),
			RequestTimeout:   time.Duration(envInt("REQUEST_TIMEOUT", yc.RequestTimeout)) * time.Second,
		},
		TokenStore: TokenStoreConfig{
			Kind:      strings.ToLower(envStr("TOKEN_STORE", yc.TokenStore)),
			Path:      tokenPath,
			RedisURL:  envStr("REDIS_URL", yc.RedisURL),
			Namespace: envStr("TOKEN_NAMESPACE", yc.TokenNamespace),
		},
		Server: ServerConfig{
			Addr:               envStr("SERVER_ADDR", yc.ServerAddr),
			ReadTimeout:        time.Duration(envInt("READ_TIMEOUT", yc.ReadTimeout)) * time.Second,
			WriteTimeout:       time.Duration(envInt("WRITE_TIMEOUT", yc.WriteTimeout)) * time.Second,
			IdleTimeout:        time.Duration(envInt("IDLE_TIMEOUT", yc.IdleTimeout)) * time.Second,
			UploadDir:          envStr("UPLOAD_DIR", yc.UploadDir),
			MaxUploadSize:      int64(envInt("MAX_UPLOAD_SIZE_MB", yc.MaxUploadSizeMB)) << 20,
			CORSAllowedOrigins: envStr("CORS_ALLOWED_ORIGINS", yc.CORSAllowedOrigins),
			JWTSecret:          envStr("JWT_SECRET", yc.JWTSecret),
			TokenTTL:           time.Duration(envInt("TOKEN_TTL_HOURS", yc.TokenTTLHours)) * time.Hour,
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", yc.RateLimitPerMinute),
		},
		LogLevel: envStr("LOG_LEVEL", yc.LogLevel),
		LogFile:  envStr("LOG_FILE", yc.LogFile),
	}
	if cfg.Server.RateLimitPerMinute <= 0 {
		cfg.Server.RateLimitPerMinute = 300
	}

	if os.Getenv("APP_ENV") == "production" {
		if cfg.Server.CORSAllowedOrigins == "" || cfg.Server.CORSAllowedOrigins == "*" {
			logger.Errorf("config: в production задайте CORS_ALLOWED_ORIGINS (явный список origins, не *)")
		}
		if cfg.Server.JWTSecret == defaults().JWTSecret {
			logger.Errorf("config: в production задайте JWT_SECRET (не используйте дефолт для разработки)")
			os.Exit(1)
		}
	}
	return cfg
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "messenger", "token.json")
}

func ms(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Millisecond
}

// envStr возвращает значение переменной окружения или fallback.
func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt возвращает числовое значение переменной окружения или fallback.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
