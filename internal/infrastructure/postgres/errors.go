package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/devconnector/internal/domain/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503" // owning user is gone
	codeInvalidText         = "22P02" // malformed uuid in a lookup
)

// mapErr folds driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return repository.ErrDuplicate
		case codeForeignKeyViolation, codeInvalidText:
			return repository.ErrNotFound
		}
	}
	return err
}

// validID reports whether id can be bound to a uuid parameter. Anything else
// cannot match a row, and pgx would reject it before reaching the server.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
