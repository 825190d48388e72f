package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"CrediKhaata"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		// Driver selects where the ledger lives: "file" (default) or
		// "postgres".
		Driver  string `envconfig:"STORAGE_DRIVER" default:"file"`
		DataDir string `envconfig:"DATA_DIR"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"credikhaata"`
	}

	Auth struct {
		Email     string `envconfig:"AUTH_EMAIL" default:"shopkeeper@test.com"`
		Password  string `envconfig:"AUTH_PASSWORD" default:"password"`
		JWTSecret string `envconfig:"JWT_SECRET" default:"credikhaata-local-secret"`
	}

	Statement struct {
		OutputDir string `envconfig:"STATEMENT_DIR" default:"./statements"`
	}

	UI struct {
		Theme string `envconfig:"THEME" default:"dark"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DataDir resolves the storage directory, defaulting to ~/.credikhaata.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, ".credikhaata"), nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
