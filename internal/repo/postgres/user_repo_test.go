package postgres

import (
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

func TestUniqueViolation(t *testing.T) {
	err := uniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	require.True(t, apperrors.IsAlreadyExists(err))
	require.Contains(t, err.Error(), "username already exists")

	err = uniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	require.True(t, apperrors.IsAlreadyExists(err))
	require.Contains(t, err.Error(), "email already exists")
}
