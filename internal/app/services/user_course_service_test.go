package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

func newUserCourseFixture(t *testing.T) (*memEnv, UserCourseService) {
	t.Helper()
	env := newMemEnv()
	return env, NewUserCourseService(env.atomic())
}

func TestAttachAppendsToPlan(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	env.addEnrollment(user, r1, 1)

	row, err := svc.Attach(context.Background(), user, r2, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(2), row.OrderNumber)
	assert.True(t, row.IsActive)
	assert.Equal(t, []int64{r1, r2}, env.planOrder(user))
}

func TestAttachAtExplicitPositionShiftsPlan(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	r3 := env.addCourse("R3")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)

	row, err := svc.Attach(context.Background(), user, r3, posPtr(1))

	require.NoError(t, err)
	assert.Equal(t, int32(1), row.OrderNumber)
	assert.Equal(t, []int64{r3, r1, r2}, env.planOrder(user))
}

func TestAttachExistingEnrollmentReturnsRow(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)

	row, err := svc.Attach(context.Background(), user, r1, posPtr(2))

	require.NoError(t, err)
	assert.Equal(t, int32(1), row.OrderNumber)
	assert.Equal(t, []int64{r1, r2}, env.planOrder(user))
}

func TestAttachRejectsCourseWithParents(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	root := env.addCourse("Root")
	child := env.addCourse("Child")
	env.addEdge(child, root, 1)

	_, err := svc.Attach(context.Background(), user, child, nil)

	require.ErrorIs(t, err, apperrors.ErrCourseHasParents)
}

func TestAttachRejectsMissingUser(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	root := env.addCourse("Root")

	_, err := svc.Attach(context.Background(), 404, root, nil)

	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDetachCompactsPlan(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	r3 := env.addCourse("R3")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)
	env.addEnrollment(user, r3, 3)

	err := svc.Detach(context.Background(), user, r2)

	require.NoError(t, err)
	assert.Equal(t, []int64{r1, r3}, env.planOrder(user))
	rows, err := svc.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(1), rows[0].OrderNumber)
	assert.Equal(t, int32(2), rows[1].OrderNumber)
}

func TestDetachMissingEnrollment(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	root := env.addCourse("Root")

	err := svc.Detach(context.Background(), user, root)

	require.ErrorIs(t, err, apperrors.ErrUserCourseNotFound)
}

func TestRepositionMovesWithinPlan(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	r3 := env.addCourse("R3")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)
	env.addEnrollment(user, r3, 3)

	err := svc.Reposition(context.Background(), user, r3, posPtr(1))

	require.NoError(t, err)
	assert.Equal(t, []int64{r3, r1, r2}, env.planOrder(user))
}

func TestRepositionMissingEnrollment(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	root := env.addCourse("Root")

	err := svc.Reposition(context.Background(), user, root, posPtr(1))

	require.ErrorIs(t, err, apperrors.ErrUserCourseNotFound)
}

func TestReorderAppliesPermutationToPlan(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)

	err := svc.Reorder(context.Background(), user, map[int64]int32{r1: 2, r2: 1})

	require.NoError(t, err)
	assert.Equal(t, []int64{r2, r1}, env.planOrder(user))
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	env, svc := newUserCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)

	err := svc.Reorder(context.Background(), user, map[int64]int32{r1: 2, r2: 2})

	require.ErrorIs(t, err, apperrors.ErrOrderConflict)
	assert.Equal(t, []int64{r1, r2}, env.planOrder(user))
}
