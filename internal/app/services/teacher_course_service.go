package services

import (
	"context"
	"fmt"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// TeacherCourseService defines the operations on teacher<->course links
type TeacherCourseService interface {
	Link(ctx context.Context, teacherID, courseID int64) error
	Unlink(ctx context.Context, teacherID, courseID int64) error
	ListByCourse(ctx context.Context, courseID int64) ([]*models.TeacherCourse, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherCourse, error)
}

// teacherCourseServiceImpl implements the TeacherCourseService interface
type teacherCourseServiceImpl struct {
	atomic     repositories.Atomic
	propagator *linkagePropagator
}

// NewTeacherCourseService creates a new teacher course service instance
func NewTeacherCourseService(atomic repositories.Atomic, maxCascadeDepth int) TeacherCourseService {
	return &teacherCourseServiceImpl{
		atomic:     atomic,
		propagator: newLinkagePropagator(maxCascadeDepth),
	}
}

// Link attaches a teacher to a root course and cascades the link down the
// course's descendant subtree. Courses with parents cannot be linked directly;
// their links are inherited from above. Linking an already linked teacher is
// a no-op beyond repairing missing subtree links.
func (s *teacherCourseServiceImpl) Link(ctx context.Context, teacherID, courseID int64) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := requireTeacher(ctx, st, teacherID); err != nil {
			return err
		}
		if err := st.Courses.Lock(ctx, []int64{courseID}); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, courseID); err != nil {
			return err
		}

		hasParents, err := st.Edges.HasParents(ctx, courseID)
		if err != nil {
			return err
		}
		if hasParents {
			return apperrors.ErrCourseHasParents
		}

		return s.propagator.onTeacherLinked(ctx, st, teacherID, courseID)
	})
}

// Unlink detaches a teacher from a root course and retracts the inherited
// subtree links that have no other linked path.
func (s *teacherCourseServiceImpl) Unlink(ctx context.Context, teacherID, courseID int64) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, []int64{courseID}); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, courseID); err != nil {
			return err
		}

		hasParents, err := st.Edges.HasParents(ctx, courseID)
		if err != nil {
			return err
		}
		if hasParents {
			return apperrors.ErrCourseHasParents
		}

		removed, err := s.propagator.onTeacherUnlinked(ctx, st, teacherID, courseID)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.ErrTeacherLinkNotFound
		}

		return nil
	})
}

// ListByCourse retrieves the teachers linked to a course.
func (s *teacherCourseServiceImpl) ListByCourse(ctx context.Context, courseID int64) ([]*models.TeacherCourse, error) {
	st := s.atomic.Reader()
	if err := requireCourses(ctx, st, courseID); err != nil {
		return nil, err
	}

	return st.TeacherLinks.ListByCourse(ctx, courseID)
}

// ListByTeacher retrieves the courses a teacher is linked to.
func (s *teacherCourseServiceImpl) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherCourse, error) {
	st := s.atomic.Reader()
	if err := requireTeacher(ctx, st, teacherID); err != nil {
		return nil, err
	}

	return st.TeacherLinks.ListByTeacher(ctx, teacherID)
}

// requireTeacher fails when the user is missing or not a teacher account.
func requireTeacher(ctx context.Context, st *repositories.Stores, teacherID int64) error {
	user, err := st.Users.GetByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if !user.IsTeacher {
		return fmt.Errorf("%w: user %d is not a teacher", apperrors.ErrValidationFailed, teacherID)
	}

	return nil
}
