package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(uniqueViolation("uq_users_email")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsDuplicateConstraintError(t *testing.T) {
	err := uniqueViolation("uq_exam_results_student")

	assert.True(t, IsDuplicateConstraintError(err, "uq_exam_results_student"))
	assert.False(t, IsDuplicateConstraintError(err, "uq_event_participants_user"))
}

func TestIsDuplicateConstraintErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to insert result: %w", uniqueViolation("uq_exam_results_student"))

	assert.True(t, IsDuplicateConstraintError(wrapped, "uq_exam_results_student"))
}

func TestConstraintName(t *testing.T) {
	assert.Equal(t, "uq_timetable_teacher_slot", ConstraintName(uniqueViolation("uq_timetable_teacher_slot")))
	assert.Equal(t, "", ConstraintName(errors.New("not a pg error")))
}
