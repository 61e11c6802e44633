package flagutil

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/petr-muller/jira-notion-sync/internal/config"
)

const (
	defaultEnvFile  = ".env"
	defaultLogLevel = "info"

	logFileMaxSizeMB  = 10
	logFileMaxBackups = 5
	logFileMaxAgeDays = 30
)

// SyncOptions hold the command line options of a sync run
type SyncOptions struct {
	DryRun      bool
	EnvFile     string
	ConfigFile  string
	MappingFile string
	LogLevel    string
	LogFile     string
	PrintReport bool
}

// AddPFlags injects sync options into the given pflag.FlagSet
func (o *SyncOptions) AddPFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.DryRun, "dry-run", false, "Fetch and diff without writing to Notion or sending emails")
	fs.StringVar(&o.EnvFile, "env-file", defaultEnvFile, "Path to a dotenv file loaded into the environment, ignored when missing")
	fs.StringVar(&o.ConfigFile, "config", "", "Path to an optional YAML file with the same keys as the environment")
	fs.StringVar(&o.MappingFile, "mapping-file", "", "Path to the field and role mappings file (default: mappings.yaml in the user config directory)")
	fs.StringVar(&o.LogLevel, "log-level", defaultLogLevel, "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&o.LogFile, "log-file", "", "Also write logs to this file, rotated by size")
	fs.BoolVar(&o.PrintReport, "print-report", false, "Print the report of the pass as YAML")
}

func (o *SyncOptions) Validate() error {
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

// ConfigureLogging sets up the global logger; call after Validate
func (o *SyncOptions) ConfigureLogging() {
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(o.logOutput())
}

func (o *SyncOptions) logOutput() io.Writer {
	if o.LogFile == "" {
		return os.Stderr
	}
	return io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   o.LogFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	})
}

// LoadOptions returns where configuration should be read from
func (o *SyncOptions) LoadOptions() config.LoadOptions {
	return config.LoadOptions{EnvFile: o.EnvFile, ConfigFile: o.ConfigFile}
}
