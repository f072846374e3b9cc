package dberrors

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"

	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205
)

// MaxTxAttempts bounds how often a store transaction is run when the
// database aborts it for a lock conflict
const MaxTxAttempts = 3

// IsRetryable reports whether err is a deadlock or serialization abort that
// leaves the transaction safe to run again from the start
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	return false
}
