package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/fileutils"

	"github.com/gyaan-apps/portal/internal/logger"
)

// loggingConf holds all logging-related configuration under the `logging` key.
//
// YAML example:
//
//	logging:
//	  internal:
//	    dir: /var/log/gyaan-portal
//	    stderr: true
//	    level: INFO
type loggingConf struct {
	Internal logger.Config `yaml:"internal"`
}

func (log *loggingConf) validate() error {
	if dir := log.Internal.Dir; dir != "" && !fileutils.FileExists(dir) {
		return errors.Errorf("logging directory '%s' does not exist", dir)
	}
	return nil
}

var defaultLoggingConf = loggingConf{
	Internal: logger.Config{
		StdErr: true,
		Level:  "INFO",
	},
}
