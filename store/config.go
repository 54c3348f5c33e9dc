package store

import (
	"fmt"
	"strings"

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
	DatabaseName string `envconfig:"GLUCOLOG_DATABASE_NAME" default:"insights"`
	Hosts        string `envconfig:"GLUCOLOG_STORE_ADDRESSES"  default:"localhost"`
	OptParams    string `envconfig:"GLUCOLOG_STORE_OPT_PARAMS"`
	Password     string `envconfig:"GLUCOLOG_STORE_PASSWORD"`
	Scheme       string `envconfig:"GLUCOLOG_STORE_SCHEME" default:"mongodb"`
	Ssl          bool   `envconfig:"GLUCOLOG_STORE_TLS"`
	User         string `envconfig:"GLUCOLOG_STORE_USERNAME"`
}

func GetConnectionString(c *Config) (string, error) {
	var cs strings.Builder

	scheme := c.Scheme
	if scheme == "" {
		scheme = "mongodb"
	}
	cs.WriteString(scheme + "://")

	if c.User != "" {
		cs.WriteString(c.User)
		if c.Password != "" {
			cs.WriteString(":" + c.Password)
		}
		cs.WriteString("@")
	}

	hosts := c.Hosts
	if hosts == "" {
		hosts = "localhost"
	}
	cs.WriteString(hosts)
	cs.WriteString("/")

	fmt.Fprintf(&cs, "?ssl=%t", c.Ssl)
	if c.OptParams != "" {
		cs.WriteString("&" + c.OptParams)
	}

	return cs.String(), nil
}
