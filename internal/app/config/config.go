package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverORM = "orm"
	DriverSQL = "sql"

	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	AuthModeJWT     = "jwt"
	AuthModeSession = "session"
	AuthModeBoth    = "both"
)

type Config struct {
	ServiceHost string
	ServicePort int
	Database    DatabaseConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Redis       RedisConfig
	MinIO       MinIOConfig
	CORS        CORSConfig
	Admin       AdminConfig
	Log         LogConfig
}

type DatabaseConfig struct {
	Driver       string // orm | sql
	Dialect      string // mysql | postgres | sqlite
	Host         string
	Port         int
	Name         string
	User         string
	Password     string
	DSN          string // если задан, перекрывает host/port/name
	AutoMigrate  bool
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Key           []byte
	Issuer        string
	Audience      string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type AuthConfig struct {
	Mode                string // jwt | session | both
	IssueTokens         bool   // false: токены выдаёт внешний сервис, login отвечает 501
	PublicCatalog       bool   // список и карточка блюда без авторизации
	AllowRoleOnRegister bool
	SessionSecret       string
	SessionTTL          time.Duration
	CookieSecure        bool
}

func (a AuthConfig) JWTEnabled() bool {
	return a.Mode == AuthModeJWT || a.Mode == AuthModeBoth
}

func (a AuthConfig) SessionEnabled() bool {
	return a.Mode == AuthModeSession || a.Mode == AuthModeBoth
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != ""
}

type CORSConfig struct {
	AllowOrigins     []string
	AllowCredentials bool
}

type AdminConfig struct {
	Username string
	Password string
	FullName string
}

type LogConfig struct {
	Level  string
	Format string // text | json
}

// ключи viper и переменные окружения, которые им соответствуют
var envBindings = map[string]string{
	"service.host":                "SERVICE_HOST",
	"service.port":                "SERVICE_PORT",
	"database.driver":             "DB_DRIVER",
	"database.dialect":            "DB_DIALECT",
	"database.host":               "DB_HOST",
	"database.port":               "DB_PORT",
	"database.name":               "DB_NAME",
	"database.user":               "DB_USER",
	"database.password":           "DB_PASSWORD",
	"database.dsn":                "DB_DSN",
	"database.auto_migrate":       "DB_AUTO_MIGRATE",
	"database.max_open_conns":     "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":     "DB_MAX_IDLE_CONNS",
	"jwt.key":                     "JWT_KEY",
	"jwt.issuer":                  "JWT_ISSUER",
	"jwt.audience":                "JWT_AUDIENCE",
	"jwt.expires_in":              "JWT_EXPIRES_IN",
	"auth.mode":                   "AUTH_MODE",
	"auth.issue_tokens":           "AUTH_ISSUE_TOKENS",
	"auth.public_catalog":         "AUTH_PUBLIC_CATALOG",
	"auth.allow_role_on_register": "AUTH_ALLOW_ROLE_ON_REGISTER",
	"auth.session_secret":         "SESSION_SECRET",
	"auth.session_ttl":            "SESSION_TTL",
	"auth.cookie_secure":          "COOKIE_SECURE",
	"redis.host":                  "REDIS_HOST",
	"redis.port":                  "REDIS_PORT",
	"redis.user":                  "REDIS_USER",
	"redis.password":              "REDIS_PASSWORD",
	"minio.endpoint":              "MINIO_ENDPOINT",
	"minio.access_key":            "MINIO_ACCESS_KEY",
	"minio.secret_key":            "MINIO_SECRET_KEY",
	"minio.bucket":                "MINIO_BUCKET",
	"minio.use_ssl":               "MINIO_USE_SSL",
	"cors.allow_origins":          "CORS_ALLOW_ORIGINS",
	"cors.allow_credentials":      "CORS_ALLOW_CREDENTIALS",
	"admin.username":              "ADMIN_USERNAME",
	"admin.password":              "ADMIN_PASSWORD",
	"admin.full_name":             "ADMIN_FULL_NAME",
	"log.level":                   "LOG_LEVEL",
	"log.format":                  "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.port", 8080)
	v.SetDefault("database.driver", DriverORM)
	v.SetDefault("database.dialect", DialectMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "axel")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("jwt.key", "dev-secret-change")
	v.SetDefault("jwt.issuer", "chilaquiles-auth")
	v.SetDefault("jwt.audience", "chilaquiles-clients")
	v.SetDefault("jwt.expires_in", time.Hour)
	v.SetDefault("auth.mode", AuthModeBoth)
	v.SetDefault("auth.issue_tokens", true)
	v.SetDefault("auth.session_secret", "dev-session-secret-change")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.bucket", "chilaquiles")
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("admin.full_name", "Administrador")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func NewConfig() (*Config, error) {
	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	// файл конфигурации необязателен, всё можно задать через окружение
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ServiceHost: v.GetString("service.host"),
		ServicePort: v.GetInt("service.port"),
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("database.driver")),
			Dialect:      strings.ToLower(v.GetString("database.dialect")),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			Name:         v.GetString("database.name"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DSN:          v.GetString("database.dsn"),
			AutoMigrate:  v.GetBool("database.auto_migrate"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
			MaxIdleConns: v.GetInt("database.max_idle_conns"),
		},
		JWT: JWTConfig{
			Key:           DecodeKey(v.GetString("jwt.key")),
			Issuer:        v.GetString("jwt.issuer"),
			Audience:      v.GetString("jwt.audience"),
			ExpiresIn:     v.GetDuration("jwt.expires_in"),
			SigningMethod: jwt.SigningMethodHS256,
		},
		Auth: AuthConfig{
			Mode:                strings.ToLower(v.GetString("auth.mode")),
			IssueTokens:         v.GetBool("auth.issue_tokens"),
			PublicCatalog:       v.GetBool("auth.public_catalog"),
			AllowRoleOnRegister: v.GetBool("auth.allow_role_on_register"),
			SessionSecret:       v.GetString("auth.session_secret"),
			SessionTTL:          v.GetDuration("auth.session_ttl"),
			CookieSecure:        v.GetBool("auth.cookie_secure"),
		},
		Redis: RedisConfig{
			Host:        v.GetString("redis.host"),
			Port:        v.GetInt("redis.port"),
			User:        v.GetString("redis.user"),
			Password:    v.GetString("redis.password"),
			DialTimeout: 10 * time.Second,
			ReadTimeout: 10 * time.Second,
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("minio.endpoint"),
			AccessKey: v.GetString("minio.access_key"),
			SecretKey: v.GetString("minio.secret_key"),
			Bucket:    v.GetString("minio.bucket"),
			UseSSL:    v.GetBool("minio.use_ssl"),
		},
		CORS: CORSConfig{
			AllowOrigins:     splitList(v.GetStringSlice("cors.allow_origins")),
			AllowCredentials: v.GetBool("cors.allow_credentials"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
			FullName: v.GetString("admin.full_name"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("config parsed")

	return cfg, nil
}

// Validate проверяет значения-перечисления
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverORM, DriverSQL:
	default:
		return fmt.Errorf("unknown database driver %q (want %s or %s)", c.Database.Driver, DriverORM, DriverSQL)
	}
	switch c.Database.Dialect {
	case DialectMySQL, DialectPostgres, DialectSQLite:
	default:
		return fmt.Errorf("unknown database dialect %q", c.Database.Dialect)
	}
	switch c.Auth.Mode {
	case AuthModeJWT, AuthModeSession, AuthModeBoth:
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}
	if len(c.JWT.Key) == 0 {
		return errors.New("jwt key must not be empty")
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("jwt expires_in must be positive")
	}
	return nil
}

// DecodeKey возвращает ключ подписи: base64, если строка им является, иначе сырые байты
func DecodeKey(s string) []byte {
	if s == "" {
		return nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil && len(b) > 0 {
		return b
	}
	return []byte(s)
}

// значение из окружения приходит одной строкой через запятую
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s:%d, DB: %s/%s@%s:%d/%s, Auth: %s, Redis: %q, MinIO: %q, JWT: *** (masked) ***}",
		c.ServiceHost, c.ServicePort,
		c.Database.Driver, c.Database.Dialect, c.Database.Host, c.Database.Port, c.Database.Name,
		c.Auth.Mode, c.Redis.Host, c.MinIO.Endpoint)
}

// SetupLogger настраивает глобальный logrus
func (c *Config) SetupLogger() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
