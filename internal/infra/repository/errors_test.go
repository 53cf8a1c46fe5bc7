package repository

import (
	"errors"
	"fmt"
	"testing"

	repo "gamestore/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapStorageError(t *testing.T) {
	assert.NoError(t, wrapStorageError(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, wrapStorageError(plain))

	cases := map[string]bool{
		"40001": true,
		"40P01": true,
		"23505": false,
		"23514": false,
	}
	for code, retryable := range cases {
		pgErr := &pgconn.PgError{Code: code, Message: "x"}
		err := wrapStorageError(fmt.Errorf("commit: %w", pgErr))

		var se *repo.StorageError
		require.ErrorAs(t, err, &se, code)
		assert.Equal(t, code, se.Code)
		assert.Equal(t, retryable, se.Retryable, code)

		//元のPgErrorまで辿れる
		var back *pgconn.PgError
		assert.ErrorAs(t, err, &back)
	}
}
