package store

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	// Uri takes precedence over the individual connection parts
	Uri          string        `envconfig:"HOSPITAL_STORE_URI"`
	DatabaseName string        `envconfig:"HOSPITAL_DATABASE_NAME" default:"hospital"`
	Hosts        string        `envconfig:"HOSPITAL_STORE_ADDRESSES"`
	OptParams    string        `envconfig:"HOSPITAL_STORE_OPT_PARAMS"`
	Password     string        `envconfig:"HOSPITAL_STORE_PASSWORD"`
	Scheme       string        `envconfig:"HOSPITAL_STORE_SCHEME" default:"mongodb"`
	Ssl          bool          `envconfig:"HOSPITAL_STORE_TLS"`
	User         string        `envconfig:"HOSPITAL_STORE_USERNAME"`
	Timeout      time.Duration `envconfig:"HOSPITAL_STORE_TIMEOUT" default:"10s"`
}

func (c *Config) GetConnectionString() (string, error) {
	if c.Uri != "" {
		return c.Uri, nil
	}
	if c.Hosts == "" {
		return "", NewConnectionError("database uri is not configured", nil)
	}

	var cs string
	if c.Scheme != "" {
		cs = c.Scheme + "://"
	} else {
		cs = "mongodb://"
	}

	if c.User != "" {
		cs += c.User
		if c.Password != "" {
			cs += ":"
			cs += c.Password
		}
		cs += "@"
	}

	cs += c.Hosts
	cs += "/"

	if c.Ssl {
		cs += "?ssl=true"
	} else {
		cs += "?ssl=false"
	}

	if c.OptParams != "" {
		cs += "&"
		cs += c.OptParams
	}
	return cs, nil
}
