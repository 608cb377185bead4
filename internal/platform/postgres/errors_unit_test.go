package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/item-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, errors.New("not supported")
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	generic := errors.New("some other error")
	unknown := &pgconn.PgError{Code: "99999", Message: "unknown error"}

	tests := []struct {
		name     string
		err      error
		sentinel error
		msg      string
		same     error
	}{
		{name: "nil_error"},
		{name: "sql_no_rows", err: sql.ErrNoRows, sentinel: store.ErrNotFound},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "items_pkey"},
			sentinel: store.ErrDuplicate,
		},
		{
			name:     "check_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "items_status_check"},
			sentinel: store.ErrInvalidEntity,
			msg:      "items_status_check",
		},
		{
			name:     "not_null_violation",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "email"},
			sentinel: store.ErrInvalidEntity,
			msg:      "not null violation (email)",
		},
		{
			name:     "wrapped_unique_violation",
			err:      fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			sentinel: store.ErrDuplicate,
		},
		{name: "generic_error", err: generic, same: generic},
		{name: "unknown_pg_code", err: unknown, same: unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)

			switch {
			case tt.err == nil:
				assert.Nil(t, result)
			case tt.same != nil:
				assert.Same(t, tt.same, result)
			default:
				require.Error(t, result)
				assert.ErrorIs(t, result, tt.sentinel)
				if tt.msg != "" {
					assert.Contains(t, result.Error(), tt.msg)
				}
			}
		})
	}
}

func TestViolationPredicates(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	check := &pgconn.PgError{Code: checkViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", unique)))
	assert.False(t, IsUniqueViolation(check))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsCheckConstraintViolation(check))
	assert.False(t, IsCheckConstraintViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		wantErr error
		errMsg  string
	}{
		{name: "one_row", result: mockResult{rowsAffected: 1}},
		{name: "no_rows", result: mockResult{rowsAffected: 0}, wantErr: store.ErrItemNotFound},
		{name: "rows_affected_error", result: mockResult{err: errors.New("driver")}, errMsg: "failed to get rows affected"},
		{name: "nil_result", result: nil, errMsg: "nil result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRowsAffected(tt.result, store.ErrItemNotFound)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				assert.ErrorContains(t, err, tt.errMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
