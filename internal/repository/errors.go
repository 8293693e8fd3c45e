package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=admin_repository.go -destination=mocks/mock_admin_repository.go -package=mocks
//go:generate mockgen -source=student_repository.go -destination=mocks/mock_student_repository.go -package=mocks

var (
	// ErrNotFound is returned when no row matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on primary key or unique constraint conflicts.
	ErrAlreadyExists = errors.New("already exists")
)

// wrapErr translates driver errors into repository sentinels, prefixing op.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}
