package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gyaan-apps/portal/storage"
	"github.com/gyaan-apps/portal/storage/model"
)

type storageConf struct {
	Backend storage.BackendType `yaml:"backend"`
	Driver  storage.DriverType  `yaml:"driver"`
	DataDir string              `yaml:"data_dir"`
	DSN     string              `yaml:"dsn"`
	storage.DSNConf
	Debug bool `yaml:"debug"`
}

func (c *storageConf) validate() error {
	switch c.Backend {
	case storage.BackendTypeFile, storage.BackendTypeBadger, "":
		if c.DataDir == "" {
			return errors.New("error in storage conf: data_dir must be specified")
		}
		return nil
	case storage.BackendTypeGorm:
		if c.Driver == storage.DriverSQLite {
			if c.DataDir == "" {
				return errors.New("error in storage conf: data_dir must be specified")
			}
			return nil
		}
		var err error
		if c.DSN == "" {
			c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
		}
		return err
	default:
		return errors.Errorf("error in storage conf: unknown backend '%s'", c.Backend)
	}
}

var defaultStorageConf = storageConf{
	Backend: storage.BackendTypeFile,
	Driver:  storage.DriverSQLite,
	DataDir: "data",
	DSNConf: storage.DSNConf{
		User: "portal",
		Host: "localhost",
		DB:   "portal",
	},
	Debug: false,
}

// LoadStorageBackends loads and returns the storage backends for the passed Config
func LoadStorageBackends(c storageConf, auth authConf) (model.Backends, error) {
	cfg := storage.Config{
		Backend:       c.Backend,
		Driver:        c.Driver,
		DSN:           c.DSN,
		DataDir:       c.DataDir,
		Debug:         c.Debug,
		UsersHash:     auth.PasswordHash,
		ResetTokenTTL: auth.ResetTokenLifetime.Duration(),
	}
	backs, err := storage.LoadBackends(cfg)
	if err != nil {
		return model.Backends{}, err
	}
	log.Info("Loaded storage backend")
	return backs, nil
}
