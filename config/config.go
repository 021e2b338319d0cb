package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
)

type Config struct {
	Port           string        `env:"PORT" env-default:"3000"`
	LogLevel       string        `env:"LOG_LEVEL" env-default:"INFO"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" env-separator:","`

	DB       DBConfig
	Firebase FirebaseConfig
	Auth     AuthConfig
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER" env-default:"firestore"`
	URL    string `env:"DATABASE_URL" env-default:"taskmanager.db"`
}

type FirebaseConfig struct {
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ProjectID       string `env:"FIRESTORE_PROJECT_ID"`
}

type AuthConfig struct {
	Secret     string        `env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" env-default:"168h"`
	BcryptCost int           `env:"BCRYPT_COST" env-default:"10"`
}

// Load reads envFile into the process environment when it exists and then
// builds the config from the environment. Variables already set win over
// the file.
func Load(envFile string) (Config, error) {
	var cfg Config

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverFirestore:
		if c.Firebase.CredentialsFile == "" && c.Firebase.ProjectID == "" {
			return errors.New("firestore driver needs GOOGLE_APPLICATION_CREDENTIALS or FIRESTORE_PROJECT_ID")
		}
	case DriverSQLite, DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%s driver needs DATABASE_URL", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	for _, origin := range c.CORSOrigins {
		if err := validateOrigin(origin); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// validateOrigin accepts "*" or an absolute http(s) origin such as
// https://app.example.com, the forms gin-contrib/cors takes without panicking.
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CORS_ORIGINS entry %q must be \"*\" or start with http:// or https://", origin)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
