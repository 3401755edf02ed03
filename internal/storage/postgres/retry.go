package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
)

// retryableCodes are the PostgreSQL error codes worth another attempt.
var retryableCodes = map[string]struct{}{ //nolint:gochecknoglobals // -
	"08000": {}, // connection_exception
	"08003": {}, // connection_does_not_exist
	"08006": {}, // connection_failure
	"08001": {}, // sqlclient_unable_to_establish_sqlconnection
	"08004": {}, // sqlserver_rejected_establishment_of_sqlconnection
	"08007": {}, // transaction_resolution_unknown
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"53000": {}, // insufficient_resources
	"53300": {}, // too_many_connections
	"57P01": {}, // admin_shutdown
	"57P02": {}, // crash_shutdown
	"57P03": {}, // cannot_connect_now
	"55P03": {}, // lock_not_available
}

// IsRetryableError checks if the given error is retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		_, ok := retryableCodes[pgerr.Field('C')]
		return ok
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Network failures surface as plain errors from the driver
	errMsg := err.Error()
	for _, fragment := range []string{
		"connection reset by peer",
		"broken pipe",
		"connection refused",
		"i/o timeout",
		"EOF",
	} {
		if strings.Contains(errMsg, fragment) {
			return true
		}
	}

	return false
}
