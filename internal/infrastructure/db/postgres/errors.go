package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidDatetime     = "22007"
	codeDatetimeOverflow    = "22008"
	codeInvalidText         = "22P02"
)

// translate maps driver errors to domain errors. notFound is the entity
// specific error returned for missing rows.
func translate(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return domain.ErrConflict
	case codeForeignKeyViolation:
		return domain.ErrReferenceNotFound
	case codeNotNullViolation, codeCheckViolation:
		return domain.Invalid("valor inválido en %s", pgErr.ColumnName)
	case codeInvalidDatetime, codeDatetimeOverflow:
		return domain.Invalid("fecha inválida")
	case codeInvalidText:
		return domain.Invalid("valor con formato inválido")
	default:
		return err
	}
}

// validID reports whether id can identify a row. Anything that is not a UUID
// cannot exist in the tables.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// scopeOwner restricts a query to rows owned by owner; empty means no filter.
// A non-UUID owner owns nothing.
func scopeOwner(owner string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case owner == "":
			return db
		case !validID(owner):
			return db.Where("1 = 0")
		default:
			return db.Where("owner_user_id = ?", owner)
		}
	}
}
