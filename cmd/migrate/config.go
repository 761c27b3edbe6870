package main

import (
	"os"

	"bookstore/internal/config"
)

// migrationsDir is where "create" writes new files.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

func databaseDSN() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DatabaseDSN, nil
}
