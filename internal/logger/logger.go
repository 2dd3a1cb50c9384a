package logger

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Config controls where and how verbose the internal logger writes.
type Config struct {
	Dir    string `yaml:"dir"`
	StdErr bool   `yaml:"stderr"`
	Level  string `yaml:"level"`
}

// Init configures the global logrus logger. When Dir is set logs are
// appended to portal.log in that directory, optionally teeing to stderr.
func Init(conf Config) error {
	level, err := log.ParseLevel(conf.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(
		&log.TextFormatter{
			FullTimestamp: true,
		},
	)
	var out io.Writer = os.Stderr
	if conf.Dir != "" {
		f, err := os.OpenFile(
			filepath.Join(conf.Dir, "portal.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
		)
		if err != nil {
			return err
		}
		if conf.StdErr {
			out = io.MultiWriter(os.Stderr, f)
		} else {
			out = f
		}
	}
	log.SetOutput(out)
	return nil
}
