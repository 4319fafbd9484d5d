package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		Database: DatabaseConfig{DBName: "officehours"},
		Server:   ServerConfig{Port: 8080},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing dbname", func(c *Config) { c.Database.DBName = "" }, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"public paseto", func(c *Config) { c.Authentication.Paseto.Mode = "public" }, false},
		{"unknown paseto mode", func(c *Config) { c.Authentication.Paseto.Mode = "v2" }, true},
		{"json logs", func(c *Config) { c.Logging.Format = "json" }, false},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"file adapter without path", func(c *Config) { c.Authorization.Adapter = "file" }, true},
		{"file adapter with path", func(c *Config) {
			c.Authorization.Adapter = "file"
			c.Authorization.PolicyPath = "policy.csv"
		}, false},
		{"unknown adapter", func(c *Config) { c.Authorization.Adapter = "mongo" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
database:
  host: db.internal
  dbname: officehours_test
server:
  port: 9000
  environment: production
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("OFFICEHOURS_SERVER_PORT", "9100")

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.Authentication.Paseto.AccessTTLMinutes != 60 {
		t.Errorf("AccessTTLMinutes default = %d, want 60", cfg.Authentication.Paseto.AccessTTLMinutes)
	}
	if cfg.Authentication.Lockout.MaxAttempts != 5 {
		t.Errorf("Lockout.MaxAttempts default = %d, want 5", cfg.Authentication.Lockout.MaxAttempts)
	}
}

func TestReadConfigMissingFileNeedsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OFFICEHOURS_DATABASE_HOST", "")

	if _, err := ReadConfig(dir); err == nil {
		t.Fatal("expected error when no config file and no env")
	}

	t.Setenv("OFFICEHOURS_DATABASE_HOST", "env-db")
	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if cfg.Database.Host != "env-db" {
		t.Errorf("Database.Host = %q, want env-db", cfg.Database.Host)
	}
	if cfg.Database.DBName != "officehours" {
		t.Errorf("Database.DBName = %q, want default officehours", cfg.Database.DBName)
	}
}
