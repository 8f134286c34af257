package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// When URL is set it is used verbatim and the discrete fields are ignored.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough settings are present to build a client.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// SMTPConfig holds the outbound mail relay settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Sender    string
	Signature string
}

// AuthConfig holds API token and bootstrap admin settings.
type AuthConfig struct {
	Secret             string
	TokenTTLMinutes    int
	AdminUser          string
	AdminPassword      string
	LoginRatePerMinute int
}

// ReportConfig selects where the header/footer images are read from.
// AssetSource is "fs" (AssetDir on local disk) or "minio" (AssetPrefix in the bucket).
type ReportConfig struct {
	AssetSource string
	AssetDir    string
	AssetPrefix string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	Env             string
	LogLevel        string
	InitDBOnStartup bool
	Database        DatabaseConfig
	MinIO           MinIOConfig
	SMTP            SMTPConfig
	Auth            AuthConfig
	Report          ReportConfig
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	smtpUser := getEnv("SMTP_USERNAME", "")
	return &AppConfig{
		AppHost:         getEnv("APP_HOST", "localhost:8080"),
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		InitDBOnStartup: getEnvBool("INIT_DB_ON_STARTUP", true),
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:      getEnvInt("SMTP_PORT", 587),
			Username:  smtpUser,
			Password:  getEnv("SMTP_PASSWORD", ""),
			Sender:    getEnv("EMAIL_SENDER", smtpUser),
			Signature: getEnv("MAIL_SIGNATURE", "Dr. Juan Pablo Moya"),
		},
		Auth: AuthConfig{
			Secret:             getEnv("SECRET_KEY", ""),
			TokenTTLMinutes:    getEnvInt("TOKEN_TTL_MINUTES", 720),
			AdminUser:          getEnv("ADMIN_USER", ""),
			AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
			LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		},
		Report: ReportConfig{
			AssetSource: getEnv("REPORT_ASSET_SOURCE", "fs"),
			AssetDir:    getEnv("REPORT_ASSET_DIR", "static/img"),
			AssetPrefix: getEnv("REPORT_ASSET_PREFIX", "assets"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
