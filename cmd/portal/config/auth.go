package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/duration"

	"github.com/gyaan-apps/portal/storage"
)

// authConf configures the shared SSO secret, password hashing and the reset
// token lifetime.
type authConf struct {
	// SSOSecret is the secret shared with all sub-applications. It can also
	// be provided via the PORTAL_SSO_SECRET environment variable, which
	// takes precedence over the config file.
	SSOSecret          string                  `yaml:"sso_secret"`
	PasswordHash       storage.Argon2idParams  `yaml:"password_hash"`
	ResetTokenLifetime duration.DurationOption `yaml:"reset_token_lifetime"`
	GeoIPDB            string                  `yaml:"geoip_db"`
}

func (c *authConf) validate() error {
	if env := os.Getenv("PORTAL_SSO_SECRET"); env != "" {
		c.SSOSecret = env
	}
	if c.SSOSecret == "" {
		return errors.New("error in auth conf: sso_secret must be set")
	}
	return nil
}

var defaultAuthConf = authConf{
	SSOSecret:          "GYAAN_SECRET_KEY_2025",
	ResetTokenLifetime: duration.DurationOption(time.Hour),
}
