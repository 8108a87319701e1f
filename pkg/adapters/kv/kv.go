package kv

import (
	"fmt"

	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// Open selects a key-value backend by driver name. The sqlite driver keeps
// everything in a single local file; redis points at a running server; memory
// is for tests and throwaway runs.
func Open(driver, databaseURL, redisAddr string) (ports.KV, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(databaseURL)
	case "redis":
		return NewRedis(redisAddr)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", driver)
	}
}
