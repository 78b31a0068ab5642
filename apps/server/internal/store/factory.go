package store

import (
	"fmt"
	"os"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func driverFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("HIVE_DB_DRIVER")))
	switch raw {
	case "", DriverSQLite, "local":
		return DriverSQLite
	case DriverPostgres, "postgresql", "db":
		return DriverPostgres
	case DriverMemory, "mem":
		return DriverMemory
	default:
		return raw
	}
}

// NewFromEnv selects a Store backend from HIVE_DB_DRIVER, matching
// auth.NewServiceFromEnv's AUTH_MODE dispatch.
func NewFromEnv() (Store, string, error) {
	driver := driverFromEnv()
	switch driver {
	case DriverSQLite:
		s, err := NewSQLiteFromEnv()
		if err != nil {
			return nil, driver, err
		}
		cached, err := WithCache(s)
		return cached, driver, err
	case DriverPostgres:
		s, err := NewPostgresFromEnv()
		if err != nil {
			return nil, driver, err
		}
		cached, err := WithCache(s)
		return cached, driver, err
	case DriverMemory:
		return NewMemory(), driver, nil
	default:
		return nil, driver, fmt.Errorf("store: invalid HIVE_DB_DRIVER %q (supported: %s, %s, %s)", driver, DriverMemory, DriverSQLite, DriverPostgres)
	}
}
