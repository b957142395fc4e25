package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Auth0        Auth0        `mapstructure:",squash"`
	Report       Report       `mapstructure:",squash"`
	IdentitySync IdentitySync `mapstructure:",squash"`
}

type App struct {
	LogLevel string         `mapstructure:"log_level"`
	Timezone string         `mapstructure:"app_timezone"`
	Location *time.Location `mapstructure:"-"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	SSLMode  string `mapstructure:"database_sslmode"`
	Migrate  bool   `mapstructure:"database_migrate"`
}

type Auth struct {
	Secret string `mapstructure:"nextauth_secret"`
}

type Auth0 struct {
	Issuer             string        `mapstructure:"auth0_issuer"`
	ClientID           string        `mapstructure:"auth0_client_id"`
	ClientSecret       string        `mapstructure:"auth0_client_secret"`
	Connection         string        `mapstructure:"auth0_connection"`
	RoleAdminID        string        `mapstructure:"auth0_role_admin"`
	RoleUserID         string        `mapstructure:"auth0_role_user"`
	RequestsPerSecond  float64       `mapstructure:"auth0_requests_per_second"`
	RequestTimeout     time.Duration `mapstructure:"auth0_request_timeout"`
	TokenExpiryBuffer  time.Duration `mapstructure:"auth0_token_expiry_buffer"`
	TokenRefreshPeriod time.Duration `mapstructure:"auth0_token_refresh_period"`
}

// Enabled indica si hay credenciales suficientes para usar la API de administración
func (a Auth0) Enabled() bool {
	return a.Issuer != "" && a.ClientID != "" && a.ClientSecret != ""
}

type Report struct {
	DateLayout   string `mapstructure:"report_date_layout"`
	MaxRangeDays int    `mapstructure:"report_max_range_days"`
}

type IdentitySync struct {
	CronSchedule      string `mapstructure:"identity_sync_cron"`
	MaxConcurrentJobs int    `mapstructure:"identity_sync_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"identity_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/finanzas")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MIGRATE", true)

	viper.SetDefault("NEXTAUTH_SECRET", "")

	viper.SetDefault("AUTH0_ISSUER", "")
	viper.SetDefault("AUTH0_CLIENT_ID", "")
	viper.SetDefault("AUTH0_CLIENT_SECRET", "")
	viper.SetDefault("AUTH0_CONNECTION", "Username-Password-Authentication")
	viper.SetDefault("AUTH0_ROLE_ADMIN", "")
	viper.SetDefault("AUTH0_ROLE_USER", "")
	viper.SetDefault("AUTH0_REQUESTS_PER_SECOND", 2)      // límite del plan gratuito de la API de administración
	viper.SetDefault("AUTH0_REQUEST_TIMEOUT", "15s")
	viper.SetDefault("AUTH0_TOKEN_EXPIRY_BUFFER", "5m")   // renovar antes del vencimiento real
	viper.SetDefault("AUTH0_TOKEN_REFRESH_PERIOD", "12h")

	viper.SetDefault("REPORT_DATE_LAYOUT", "2/1/2006") // d/m/aaaa
	viper.SetDefault("REPORT_MAX_RANGE_DAYS", 92)

	viper.SetDefault("IDENTITY_SYNC_CRON", "*/15 * * * *") // cada 15 minutos
	viper.SetDefault("IDENTITY_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("IDENTITY_SYNC_ENABLED", true)

	viper.SetDefault("APP_TIMEZONE", "Local")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // SOLO LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variables cargadas por godotenv (viper no pudo leer .env):", err)
	} else {
		logrus.Info("Archivo .env leído por Viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize completa los valores derivados de la configuración leída
func (c *Config) normalize() error {
	loc, err := utils.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("zona horaria inválida %q: %w", c.App.Timezone, err)
	}
	c.App.Location = loc

	// El emisor de Auth0 se usa como prefijo de URL
	c.Auth0.Issuer = strings.TrimSuffix(c.Auth0.Issuer, "/")

	if c.Report.MaxRangeDays <= 0 {
		c.Report.MaxRangeDays = 92
	}
	if c.Report.DateLayout == "" {
		c.Report.DateLayout = "2/1/2006"
	}
	if c.IdentitySync.MaxConcurrentJobs <= 0 {
		c.IdentitySync.MaxConcurrentJobs = 1
	}

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s?sslmode=%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
		c.Database.SSLMode,
	)

	return nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("No fue posible obtener el directorio actual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Intentando cargar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Archivo .env cargado de:", location)
			return
		}
	}

	logrus.Warn("No se encontró archivo .env en ninguna ubicación conocida")
}
