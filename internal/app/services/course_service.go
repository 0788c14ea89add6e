package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// CourseService defines the interface for course CRUD operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetCourseByUID(ctx context.Context, uid string) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	atomic     repositories.Atomic
	propagator *linkagePropagator
}

// NewCourseService creates a new course service instance
func NewCourseService(atomic repositories.Atomic, maxCascadeDepth int) CourseService {
	return &courseServiceImpl{
		atomic:     atomic,
		propagator: newLinkagePropagator(maxCascadeDepth),
	}
}

// validateCourse validates course data before database operations
func validateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}

	if !models.ValidAccessLevel(course.AccessLevel) {
		return fmt.Errorf("%w: unknown access level %q", apperrors.ErrValidationFailed, course.AccessLevel)
	}

	return nil
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	if err := validateCourse(course); err != nil {
		return 0, err
	}

	if err := s.atomic.Reader().Courses.Create(ctx, course); err != nil {
		return 0, err
	}

	return course.ID, nil
}

// GetCourseByID retrieves a course with its parent edges.
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	st := s.atomic.Reader()

	course, err := st.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Parents, err = st.Edges.ParentsOf(ctx, id)
	if err != nil {
		return nil, err
	}

	return course, nil
}

// GetCourseByUID retrieves a course by its external import code.
func (s *courseServiceImpl) GetCourseByUID(ctx context.Context, uid string) (*models.Course, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, fmt.Errorf("%w: course uid cannot be empty", apperrors.ErrValidationFailed)
	}

	st := s.atomic.Reader()

	course, err := st.Courses.GetByCourseUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	course.Parents, err = st.Edges.ParentsOf(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	return course, nil
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.atomic.Reader().Courses.GetAll(ctx)
}

// UpdateCourse updates an existing course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := validateCourse(course); err != nil {
		return err
	}
	if course.ID <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	return s.atomic.Reader().Courses.Update(ctx, course)
}

// DeleteCourse removes a course together with its edges, enrollments and
// materials. The vacated sibling and plan scopes are compacted and teacher
// links inherited through the course are retracted, all in one transaction.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := requireCourses(ctx, st, id); err != nil {
			return err
		}

		if err := lockCourseGraph(ctx, st, []int64{id}, func(ctx context.Context) ([]int64, error) {
			parentIDs, err := st.Edges.ParentIDs(ctx, id)
			if err != nil {
				return nil, err
			}
			childIDs, err := st.Edges.ChildIDs(ctx, id)
			if err != nil {
				return nil, err
			}
			return append(parentIDs, childIDs...), nil
		}); err != nil {
			return err
		}

		parentIDs, err := st.Edges.ParentIDs(ctx, id)
		if err != nil {
			return err
		}
		childIDs, err := st.Edges.ChildIDs(ctx, id)
		if err != nil {
			return err
		}

		userIDs, err := st.UserCourses.UserIDsForCourse(ctx, id)
		if err != nil {
			return err
		}

		// Retractions read the pre-delete state: the course's own links die
		// with the row, the links it granted downwards must be withdrawn.
		for _, parentID := range parentIDs {
			if err := s.propagator.onEdgeRemoved(ctx, st, id, parentID); err != nil {
				return err
			}
		}
		for _, childID := range childIDs {
			if err := s.propagator.onEdgeRemoved(ctx, st, childID, id); err != nil {
				return err
			}
		}

		if err := st.Courses.Delete(ctx, id); err != nil {
			return err
		}

		for _, parentID := range parentIDs {
			if err := compactScope(ctx, st.Edges.ChildSequence(parentID)); err != nil {
				return err
			}
		}
		for _, userID := range userIDs {
			if err := compactScope(ctx, st.UserCourses.Sequence(userID)); err != nil {
				return err
			}
		}

		return nil
	})
}
