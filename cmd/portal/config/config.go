package config

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"
	"tideland.dev/go/slices"

	"github.com/gyaan-apps/portal"
)

// Config holds the portal's configuration
type Config struct {
	Server  portal.ServerConf `yaml:"server"`
	Logging loggingConf       `yaml:"logging"`
	Storage storageConf       `yaml:"storage"`
	Caching cachingConf       `yaml:"caching"`
	Auth    authConf          `yaml:"auth"`
	Apps    []portal.AppConf  `yaml:"apps"`
}

var conf *Config

// Get returns the loaded Config
func Get() *Config {
	return conf
}

var possibleConfigLocations = []string{
	".",
	"config",
	"/config",
	"/etc/gyaan-portal",
}

const configFileName = "config.yaml"

// Load loads the configuration from the passed file, falling back to the
// known config locations when no file is passed.
func Load(filename string) {
	if filename == "" {
		for _, dir := range possibleConfigLocations {
			candidate := dir + "/" + configFileName
			if fileutils.FileExists(candidate) {
				filename = candidate
				break
			}
		}
	}
	if filename == "" {
		log.Fatal("could not find a config file")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		log.WithError(err).Fatal("could not read config file")
	}
	conf = &Config{
		Logging: defaultLoggingConf,
		Storage: defaultStorageConf,
		Auth:    defaultAuthConf,
	}
	if err = yaml.Unmarshal(data, conf); err != nil {
		log.WithError(err).Fatal("could not parse config file")
	}
	if err = conf.validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
}

func (c *Config) validate() error {
	if err := c.Logging.validate(); err != nil {
		return err
	}
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Auth.validate(); err != nil {
		return err
	}
	return validateApps(c.Apps)
}

var (
	errDuplicateAppSlug = errors.New("error in apps conf: duplicate slug")
	errIncompleteApp    = errors.New("error in apps conf: slug, name and url must be set")
)

func validateApps(apps []portal.AppConf) error {
	slugs := slices.Map(
		apps, func(app portal.AppConf) string {
			return app.Slug
		},
	)
	if len(slices.Unique(slugs)) != len(slugs) {
		return errDuplicateAppSlug
	}
	for _, app := range apps {
		if app.Slug == "" || app.Name == "" || app.URL == "" {
			return errIncompleteApp
		}
	}
	return nil
}
