package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/saddlefit/oms/internal/shared"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(pgx.ErrNoRows), shared.ErrNotFound)
	assert.ErrorIs(t, MapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), shared.ErrNotFound)
	assert.ErrorIs(t, MapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), shared.ErrDuplicate)
	assert.ErrorIs(t, MapError(&pgconn.PgError{Code: "23503"}), shared.ErrConflict)

	other := errors.New("boom")
	assert.Equal(t, other, MapError(other))
}

func TestExpectAffected(t *testing.T) {
	assert.ErrorIs(t, ExpectAffected(pgconn.NewCommandTag("DELETE 0"), nil), shared.ErrNotFound)
	assert.NoError(t, ExpectAffected(pgconn.NewCommandTag("DELETE 1"), nil))
	assert.ErrorIs(t, ExpectAffected(pgconn.CommandTag{}, pgx.ErrNoRows), shared.ErrNotFound)
}
