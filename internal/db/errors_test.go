package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/patsapolpro/web-starter-kit-ai/internal/db"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		sentinel error
	}{
		{"NoRows", sql.ErrNoRows, db.ErrNotFound},
		{"WrappedNoRows", fmt.Errorf("scan: %w", sql.ErrNoRows), db.ErrNotFound},
		{"Deadline", context.DeadlineExceeded, db.ErrTimeout},
		{"Canceled", context.Canceled, db.ErrTimeout},
		{"ForeignKey", &pq.Error{Code: "23503"}, db.ErrForeignKeyViolation},
		{"Unique", &pq.Error{Code: "23505"}, db.ErrDuplicateKey},
		{"Check", &pq.Error{Code: "23514"}, db.ErrCheckViolation},
		{"QueryCanceled", &pq.Error{Code: "57014"}, db.ErrTimeout},
		{"ConnectionClass", &pq.Error{Code: "08006"}, db.ErrConnectionFailed},
		{"NetError", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, db.ErrConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := db.MapError(tt.input)
			assert.ErrorIs(t, got, tt.sentinel)
			assert.ErrorIs(t, got, tt.input)
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	assert.NoError(t, db.MapError(nil))

	plain := errors.New("something odd")
	assert.Same(t, plain, db.MapError(plain))

	syntax := &pq.Error{Code: "42601"}
	assert.Equal(t, error(syntax), db.MapError(syntax))
}

func TestMapErrorDoesNotDoubleWrap(t *testing.T) {
	once := db.MapError(&pq.Error{Code: "23503"})
	twice := db.MapError(once)

	assert.Same(t, once, twice)
	assert.True(t, db.IsForeignKeyViolation(twice))
	assert.False(t, db.IsConnectionFailed(twice))
}
