package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

func newTeacherCourseFixture(t *testing.T) (*memEnv, TeacherCourseService) {
	t.Helper()
	env := newMemEnv()
	return env, NewTeacherCourseService(env.atomic(), 20)
}

func TestLinkCascadesDownSubtree(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	c1 := env.addCourse("C1")
	c2 := env.addCourse("C2")
	env.addEdge(c1, root, 1)
	env.addEdge(c2, c1, 1)

	err := svc.Link(context.Background(), teacher, root)

	require.NoError(t, err)
	assert.Equal(t, []int64{root, c1, c2}, env.linkedCourses(teacher))
}

func TestLinkIsIdempotentAndRepairsSubtree(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	child := env.addCourse("Child")
	env.addEdge(child, root, 1)
	env.addLink(teacher, root)

	err := svc.Link(context.Background(), teacher, root)

	require.NoError(t, err)
	assert.Equal(t, []int64{root, child}, env.linkedCourses(teacher))
}

func TestLinkRejectsCourseWithParents(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	child := env.addCourse("Child")
	env.addEdge(child, root, 1)

	err := svc.Link(context.Background(), teacher, child)

	require.ErrorIs(t, err, apperrors.ErrCourseHasParents)
	assert.Empty(t, env.linkedCourses(teacher))
}

func TestLinkRejectsNonTeacherUser(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	student := env.addUser(false)
	root := env.addCourse("Root")

	err := svc.Link(context.Background(), student, root)

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLinkRejectsMissingUser(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	root := env.addCourse("Root")

	err := svc.Link(context.Background(), 404, root)

	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUnlinkRetractsSubtree(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	c1 := env.addCourse("C1")
	c2 := env.addCourse("C2")
	env.addEdge(c1, root, 1)
	env.addEdge(c2, c1, 1)
	env.addLink(teacher, root)
	env.addLink(teacher, c1)
	env.addLink(teacher, c2)

	err := svc.Unlink(context.Background(), teacher, root)

	require.NoError(t, err)
	assert.Empty(t, env.linkedCourses(teacher))
}

func TestUnlinkKeepsLinksWithAnotherRoot(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	rootA := env.addCourse("Root A")
	rootB := env.addCourse("Root B")
	shared := env.addCourse("Shared")
	env.addEdge(shared, rootA, 1)
	env.addEdge(shared, rootB, 1)
	env.addLink(teacher, rootA)
	env.addLink(teacher, rootB)
	env.addLink(teacher, shared)

	err := svc.Unlink(context.Background(), teacher, rootA)

	require.NoError(t, err)
	assert.Equal(t, []int64{rootB, shared}, env.linkedCourses(teacher))
}

func TestUnlinkRejectsCourseWithParents(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	child := env.addCourse("Child")
	env.addEdge(child, root, 1)
	env.addLink(teacher, root)
	env.addLink(teacher, child)

	err := svc.Unlink(context.Background(), teacher, child)

	require.ErrorIs(t, err, apperrors.ErrCourseHasParents)
	assert.Equal(t, []int64{root, child}, env.linkedCourses(teacher))
}

func TestUnlinkMissingLink(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")

	err := svc.Unlink(context.Background(), teacher, root)

	require.ErrorIs(t, err, apperrors.ErrTeacherLinkNotFound)
}

func TestListByCourseReturnsLinkedTeachers(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	t1 := env.addUser(true)
	t2 := env.addUser(true)
	root := env.addCourse("Root")
	env.addLink(t1, root)
	env.addLink(t2, root)

	links, err := svc.ListByCourse(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, t1, links[0].TeacherID)
	assert.Equal(t, t2, links[1].TeacherID)
}

func TestListByTeacherRequiresTeacher(t *testing.T) {
	env, svc := newTeacherCourseFixture(t)
	student := env.addUser(false)

	_, err := svc.ListByTeacher(context.Background(), student)

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
