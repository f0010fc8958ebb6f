package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvironmentProduction = "production"

type Config struct {
	HttpPort    uint16 `envconfig:"HOSPITAL_HTTP_SERVER_PORT" default:"8080" required:"true"`
	Environment string `envconfig:"HOSPITAL_ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	SessionSecret     string        `envconfig:"HOSPITAL_SESSION_SECRET"`
	SessionTTL        time.Duration `envconfig:"HOSPITAL_SESSION_TTL" default:"24h"`
	SessionCookieName string        `envconfig:"HOSPITAL_SESSION_COOKIE" default:"token"`

	// Staff whose position equals this value are administrators
	AdminPosition        string `envconfig:"HOSPITAL_ADMIN_POSITION" default:"Admin"`
	DefaultUserStatus    string `envconfig:"HOSPITAL_DEFAULT_USER_STATUS" default:"Pending"`
	RequireApprovedLogin bool   `envconfig:"HOSPITAL_REQUIRE_APPROVED_LOGIN" default:"false"`

	AuthRateLimit float64 `envconfig:"HOSPITAL_AUTH_RATE_LIMIT" default:"5"`
	AuthRateBurst int     `envconfig:"HOSPITAL_AUTH_RATE_BURST" default:"10"`

	LoginPath string `envconfig:"HOSPITAL_LOGIN_PATH" default:"/login"`
	WebRoot   string `envconfig:"HOSPITAL_WEB_ROOT"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}
