package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"N.A."}, cfg.Data.Sentinels)
	assert.Equal(t, "data/player_injuries_impact.csv", cfg.Data.InputPath)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	require.NoError(t, cfg.validate())
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name: "defaults without file",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "file overrides defaults",
			yaml: `
server:
  port: 9100
data:
  input_path: /srv/injuries.csv
  sentinels: ["N.A.", "-"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, "/srv/injuries.csv", cfg.Data.InputPath)
				assert.Equal(t, []string{"N.A.", "-"}, cfg.Data.Sentinels)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "env overrides file",
			yaml: "server:\n  port: 9100\n",
			env: map[string]string{
				"FOOTLENS_SERVER_PORT":    "9200",
				"FOOTLENS_DATA_SENTINELS": "N.A.,n/a",
				"FOOTLENS_LOGGING_LEVEL":  "debug",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9200, cfg.Server.Port)
				assert.Equal(t, []string{"N.A.", "n/a"}, cfg.Data.Sentinels)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"FOOTLENS_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "invalid logging output",
			yaml:    "logging:\n  output: syslog\n",
			wantErr: "invalid logging output",
		},
		{
			name:    "malformed yaml",
			yaml:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid default", mutate: func(c *Config) {}},
		{name: "zero read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: true},
		{name: "cors without origins", mutate: func(c *Config) { c.Security.AllowedOrigins = nil }, wantErr: true},
		{name: "cors disabled without origins", mutate: func(c *Config) {
			c.Security.EnableCORS = false
			c.Security.AllowedOrigins = nil
		}},
		{name: "empty input path", mutate: func(c *Config) { c.Data.InputPath = " " }, wantErr: true},
		{name: "negative rps", mutate: func(c *Config) { c.Security.RateLimit.RPS = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_FileOutputGetsDefaultPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""
	cfg.Logging.Format = "text"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "logs/footlens.log", cfg.Logging.FilePath)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestGetConfigFilePath_Env(t *testing.T) {
	t.Setenv("FOOTLENS_CONFIG_FILE", "/etc/footlens.yaml")
	assert.Equal(t, "/etc/footlens.yaml", getConfigFilePath())
}
