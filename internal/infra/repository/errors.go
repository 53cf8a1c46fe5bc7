package repository

import (
	"errors"

	repo "gamestore/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// PostgreSQLのエラーならSQLSTATEを付けて包む。それ以外はそのまま返す。
func wrapStorageError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	return &repo.StorageError{
		Code:      pgErr.Code,
		Retryable: isRetryable(pgErr.Code),
		Err:       err,
	}
}

func isRetryable(code string) bool {
	switch code {
	case sqlstateSerializationFailure, sqlstateDeadlockDetected:
		return true
	}
	return false
}
