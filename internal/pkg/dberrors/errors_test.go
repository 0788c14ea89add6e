package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(pgError("23505", "user_courses_pkey")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("error inserting: %w", pgError("23505", ""))))
	assert.False(t, IsUniqueViolation(pgError("23503", "")))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(pgError("23503", "course_parents_course_id_fkey")))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("error inserting: %w", pgError("23503", ""))))
	assert.False(t, IsForeignKeyViolation(pgError("23505", "")))
	assert.False(t, IsForeignKeyViolation(errors.New("connection refused")))
}

func TestIsDuplicateConstraintError(t *testing.T) {
	err := pgError("23505", "courses_course_uid_key")

	assert.True(t, IsDuplicateConstraintError(err, "courses_course_uid_key"))
	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("wrapped: %w", err), "courses_course_uid_key"))
	assert.False(t, IsDuplicateConstraintError(err, "uq_materials_course_external_uid"))
	assert.False(t, IsDuplicateConstraintError(pgError("23503", "courses_course_uid_key"), "courses_course_uid_key"))
}
