package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

func newCourseFixture(t *testing.T) (*memEnv, CourseService) {
	t.Helper()
	env := newMemEnv()
	return env, NewCourseService(env.atomic(), 20)
}

func TestCreateCourseAssignsID(t *testing.T) {
	_, svc := newCourseFixture(t)

	id, err := svc.CreateCourse(context.Background(), &models.Course{
		Title:       "Go Basics",
		AccessLevel: models.AccessSelfGuided,
	})

	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestCreateCourseRejectsEmptyTitle(t *testing.T) {
	_, svc := newCourseFixture(t)

	_, err := svc.CreateCourse(context.Background(), &models.Course{
		Title:       "  ",
		AccessLevel: models.AccessSelfGuided,
	})

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateCourseRejectsUnknownAccessLevel(t *testing.T) {
	_, svc := newCourseFixture(t)

	_, err := svc.CreateCourse(context.Background(), &models.Course{
		Title:       "Go Basics",
		AccessLevel: "open_bar",
	})

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetCourseByIDIncludesParents(t *testing.T) {
	env, svc := newCourseFixture(t)
	parent := env.addCourse("Parent")
	course := env.addCourse("Course")
	env.addEdge(course, parent, 1)

	got, err := svc.GetCourseByID(context.Background(), course)

	require.NoError(t, err)
	require.Len(t, got.Parents, 1)
	assert.Equal(t, parent, got.Parents[0].ParentCourseID)
}

func TestGetCourseByUID(t *testing.T) {
	env, svc := newCourseFixture(t)
	id := env.addCourse("Course")
	uid := "COURSE-PY-01"
	env.courses[id].CourseUID = &uid

	got, err := svc.GetCourseByUID(context.Background(), uid)

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestGetCourseByUIDRejectsEmpty(t *testing.T) {
	_, svc := newCourseFixture(t)

	_, err := svc.GetCourseByUID(context.Background(), "  ")

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteCourseCompactsSiblingOrder(t *testing.T) {
	env, svc := newCourseFixture(t)
	parent := env.addCourse("Parent")
	a := env.addCourse("A")
	b := env.addCourse("B")
	c := env.addCourse("C")
	env.addEdge(a, parent, 1)
	env.addEdge(b, parent, 2)
	env.addEdge(c, parent, 3)

	err := svc.DeleteCourse(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, []int64{a, c}, env.childOrder(parent))

	members, err := env.stores.Edges.ChildSequence(parent).Members(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, int32(1), members[0].Position)
	assert.Equal(t, int32(2), members[1].Position)
}

func TestDeleteCourseCompactsEnrolledPlans(t *testing.T) {
	env, svc := newCourseFixture(t)
	user := env.addUser(false)
	r1 := env.addCourse("R1")
	r2 := env.addCourse("R2")
	r3 := env.addCourse("R3")
	env.addEnrollment(user, r1, 1)
	env.addEnrollment(user, r2, 2)
	env.addEnrollment(user, r3, 3)

	err := svc.DeleteCourse(context.Background(), r2)

	require.NoError(t, err)
	assert.Equal(t, []int64{r1, r3}, env.planOrder(user))
	assert.Equal(t, int32(1), env.enrollments[enrollKey{user, r1}].OrderNumber)
	assert.Equal(t, int32(2), env.enrollments[enrollKey{user, r3}].OrderNumber)
}

func TestDeleteCourseRetractsInheritedLinks(t *testing.T) {
	env, svc := newCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	child := env.addCourse("Child")
	env.addEdge(child, root, 1)
	env.addLink(teacher, root)
	env.addLink(teacher, child)

	err := svc.DeleteCourse(context.Background(), root)

	require.NoError(t, err)
	assert.Empty(t, env.linkedCourses(teacher))
	assert.Empty(t, env.childOrder(root))
}

func TestDeleteCourseRetractsLinksOfLateCommittedChild(t *testing.T) {
	env, svc := newCourseFixture(t)
	teacher := env.addUser(true)
	root := env.addCourse("Root")
	child := env.addCourse("Child")
	env.addLink(teacher, root)

	// The child edge and its inherited link land between the first lock batch
	// and the re-read, the way a concurrent AddParent commit would.
	env.courseLockHook = func() {
		env.addEdge(child, root, 1)
		env.addLink(teacher, child)
	}

	err := svc.DeleteCourse(context.Background(), root)

	require.NoError(t, err)
	assert.True(t, env.lockedCourses[child])
	assert.Empty(t, env.linkedCourses(teacher))
}

func TestDeleteCourseCompactsLateCommittedParentScope(t *testing.T) {
	env, svc := newCourseFixture(t)
	parent := env.addCourse("Parent")
	child := env.addCourse("Child")
	sibling := env.addCourse("Sibling")
	env.addEdge(sibling, parent, 1)

	env.courseLockHook = func() {
		for _, edge := range env.edges {
			if edge.CourseID == sibling && edge.ParentCourseID == parent {
				edge.OrderNumber = 2
			}
		}
		env.addEdge(child, parent, 1)
	}

	err := svc.DeleteCourse(context.Background(), child)

	require.NoError(t, err)
	assert.True(t, env.lockedCourses[parent])
	assert.Equal(t, []int64{sibling}, env.childOrder(parent))
	for _, edge := range env.edges {
		if edge.ParentCourseID == parent {
			assert.Equal(t, int32(1), edge.OrderNumber)
		}
	}
}

func TestDeleteCourseMissing(t *testing.T) {
	_, svc := newCourseFixture(t)

	err := svc.DeleteCourse(context.Background(), 404)

	require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
