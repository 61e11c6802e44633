package flagutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/petr-muller/jira-notion-sync/internal/config"
)

func TestSyncOptions(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    SyncOptions
		expectError bool
	}{
		{
			name:     "defaults",
			expected: SyncOptions{EnvFile: ".env", LogLevel: "info"},
		},
		{
			name: "all flags",
			args: []string{"--dry-run", "--env-file=prod.env", "--config=sync.yaml", "--mapping-file=m.yaml", "--log-level=debug", "--log-file=sync.log", "--print-report"},
			expected: SyncOptions{
				DryRun:      true,
				EnvFile:     "prod.env",
				ConfigFile:  "sync.yaml",
				MappingFile: "m.yaml",
				LogLevel:    "debug",
				LogFile:     "sync.log",
				PrintReport: true,
			},
		},
		{
			name:        "invalid log level",
			args:        []string{"--log-level=loud"},
			expected:    SyncOptions{EnvFile: ".env", LogLevel: "loud"},
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var o SyncOptions
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			o.AddPFlags(fs)
			if err := fs.Parse(tc.args); err != nil {
				t.Fatalf("cannot parse flags: %v", err)
			}

			if diff := cmp.Diff(tc.expected, o); diff != "" {
				t.Errorf("options differ:\n%s", diff)
			}

			err := o.Validate()
			if tc.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tc.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfigureLoggingWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")
	o := SyncOptions{LogLevel: "warn", LogFile: path}
	o.ConfigureLogging()
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	logrus.Info("not written")
	logrus.Warn("written to the log file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to the log file") || strings.Contains(string(data), "not written") {
		t.Errorf("unexpected log file content:\n%s", data)
	}
}

func TestLoadOptions(t *testing.T) {
	o := SyncOptions{EnvFile: "a.env", ConfigFile: "b.yaml"}
	if diff := cmp.Diff(config.LoadOptions{EnvFile: "a.env", ConfigFile: "b.yaml"}, o.LoadOptions()); diff != "" {
		t.Errorf("load options differ:\n%s", diff)
	}
}
