package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gyaan-apps/portal/storage/model"
)

// BackendType selects the storage backend implementation.
type BackendType string

const (
	// BackendTypeFile stores each collection in a JSON file.
	BackendTypeFile BackendType = "file"
	// BackendTypeBadger stores everything in an embedded Badger database.
	BackendTypeBadger BackendType = "badger"
	// BackendTypeGorm stores everything in a SQL database via GORM.
	BackendTypeGorm BackendType = "gorm"
)

// DriverType represents the type of database driver used by the gorm backend
type DriverType string

const (
	// DriverSQLite is the SQLite driver
	DriverSQLite DriverType = "sqlite"
	// DriverMySQL is the MySQL driver
	DriverMySQL DriverType = "mysql"
	// DriverPostgres is the PostgreSQL driver
	DriverPostgres DriverType = "postgres"
)

var SupportedDrivers = []DriverType{
	DriverSQLite,
	DriverMySQL,
	DriverPostgres,
}

// DSNConf holds the connection parameters from which a dsn can be built.
type DSNConf struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
}

// DSN creates and returns a dsn connection string for the passed DriverType and DSNConf
func DSN(driver DriverType, conf DSNConf) (string, error) {
	switch driver {
	case DriverSQLite:
		return "", errors.Errorf("driver %s does not use dsn", driver)
	case DriverMySQL:
		if conf.Port == 0 {
			conf.Port = 3306
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True", conf.User, conf.Password, conf.Host, conf.Port,
			conf.DB,
		), nil
	case DriverPostgres:
		if conf.Port == 0 {
			conf.Port = 5432
		}
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d",
			conf.Host, conf.User, conf.Password, conf.DB, conf.Port,
		), nil
	default:
		return "", errors.Errorf("unsupported driver '%s'", driver)
	}
}

// Config holds everything needed to construct the storage backends.
type Config struct {
	Backend BackendType
	DataDir string
	Driver  DriverType
	DSN     string
	Debug   bool

	UsersHash     Argon2idParams
	ResetTokenTTL time.Duration
}

// Connect opens a gorm database connection for the passed Config
func Connect(config Config) (*gorm.DB, error) {
	gormConf := &gorm.Config{}
	if config.Debug {
		gormConf.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConf.Logger = logger.Default.LogMode(logger.Silent)
	}
	switch config.Driver {
	case DriverSQLite:
		dbPath := filepath.Join(config.DataDir, "portal.db")
		return gorm.Open(sqlite.Open(dbPath), gormConf)
	case DriverMySQL:
		return gorm.Open(mysql.Open(config.DSN), gormConf)
	case DriverPostgres:
		return gorm.Open(postgres.Open(config.DSN), gormConf)
	default:
		return nil, errors.Errorf("unsupported driver '%s'", config.Driver)
	}
}

// LoadBackends constructs the storage backends for the passed Config.
func LoadBackends(config Config) (model.Backends, error) {
	if config.ResetTokenTTL == 0 {
		config.ResetTokenTTL = time.Hour
	}
	switch config.Backend {
	case BackendTypeFile, "":
		if config.DataDir == "" {
			return model.Backends{}, errors.New("storage: data_dir must be set for the file backend")
		}
		fs := NewFileStorage(config.DataDir, config.UsersHash, config.ResetTokenTTL)
		return model.Backends{
			Users:       fs.UsersStorage(),
			ResetTokens: fs.ResetTokensStorage(),
			Content:     fs.ContentStorage(),
		}, nil
	case BackendTypeBadger:
		if config.DataDir == "" {
			return model.Backends{}, errors.New("storage: data_dir must be set for the badger backend")
		}
		bs, err := NewBadgerStorage(config.DataDir, config.UsersHash, config.ResetTokenTTL)
		if err != nil {
			return model.Backends{}, err
		}
		return model.Backends{
			Users:       bs.UsersStorage(),
			ResetTokens: bs.ResetTokensStorage(),
			Content:     bs.ContentStorage(),
		}, nil
	case BackendTypeGorm:
		s, err := NewStorage(config)
		if err != nil {
			return model.Backends{}, err
		}
		return model.Backends{
			Users:       s.UsersStorage(),
			ResetTokens: s.ResetTokensStorage(),
			Content:     s.ContentStorage(),
		}, nil
	default:
		return model.Backends{}, errors.Errorf("unsupported storage backend '%s'", config.Backend)
	}
}
