package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	pg := func(code string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: code, ColumnName: "email"})
	}

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrClientNotFound},
		{"unique violation", pg("23505"), domain.ErrConflict},
		{"foreign key violation", pg("23503"), domain.ErrReferenceNotFound},
		{"not null violation", pg("23502"), domain.ErrValidation},
		{"invalid datetime", pg("22007"), domain.ErrValidation},
		{"datetime overflow", pg("22008"), domain.ErrValidation},
		{"invalid text", pg("22P02"), domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.in, domain.ErrClientNotFound)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestTranslate_UnknownErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Same(t, boom, translate(boom, domain.ErrClientNotFound))

	serialization := &pgconn.PgError{Code: "40001"}
	assert.ErrorIs(t, translate(serialization, domain.ErrClientNotFound), serialization)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("0b6f3a0e-8a8b-4d8e-9c61-2f1f6d1c2b3a"))
	assert.False(t, validID(""))
	assert.False(t, validID("42"))
}
