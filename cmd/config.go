package cmd

import (
	"fmt"
	"time"
)

// Storage drivers accepted in Config.StorageDriver.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTPPort      string
	StorageDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DeviationTolerancePercent is a decimal string such as "5" or "2.5".
	DeviationTolerancePercent string
	ActiveOrderStaleAfter     time.Duration
	ActiveOrderWatchSchedule  string
}

// PostgresDSN returns the keyword/value connection string of the database.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
