package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// UserCourseService defines the operations on a user's ordered course plan
type UserCourseService interface {
	Attach(ctx context.Context, userID, courseID int64, position *int32) (*models.UserCourse, error)
	Detach(ctx context.Context, userID, courseID int64) error
	Reposition(ctx context.Context, userID, courseID int64, position *int32) error
	Reorder(ctx context.Context, userID int64, positions map[int64]int32) error
	ListByUser(ctx context.Context, userID int64) ([]*models.UserCourse, error)
}

// userCourseServiceImpl implements the UserCourseService interface
type userCourseServiceImpl struct {
	atomic repositories.Atomic
}

// NewUserCourseService creates a new user course service instance
func NewUserCourseService(atomic repositories.Atomic) UserCourseService {
	return &userCourseServiceImpl{atomic: atomic}
}

// Attach enrolls a user in a root course at the given plan position, or at
// the end when position is nil. Courses with parents cannot be attached
// directly. Attaching an already enrolled course returns the existing row.
func (s *userCourseServiceImpl) Attach(ctx context.Context, userID, courseID int64, position *int32) (*models.UserCourse, error) {
	var row *models.UserCourse
	err := s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := requireUser(ctx, st, userID); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, courseID); err != nil {
			return err
		}
		if err := st.Users.Lock(ctx, userID); err != nil {
			return err
		}

		hasParents, err := st.Edges.HasParents(ctx, courseID)
		if err != nil {
			return err
		}
		if hasParents {
			return apperrors.ErrCourseHasParents
		}

		existing, err := st.UserCourses.Get(ctx, userID, courseID)
		if err == nil {
			row = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrUserCourseNotFound) {
			return err
		}

		pos, err := placeMember(ctx, st.UserCourses.Sequence(userID), courseID, position)
		if err != nil {
			return err
		}

		row = &models.UserCourse{
			UserID:      userID,
			CourseID:    courseID,
			IsActive:    true,
			OrderNumber: pos,
		}
		return st.UserCourses.Insert(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// Detach removes a course from the user's plan and compacts the remaining
// order.
func (s *userCourseServiceImpl) Detach(ctx context.Context, userID, courseID int64) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Users.Lock(ctx, userID); err != nil {
			return err
		}

		removed, err := st.UserCourses.Delete(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.ErrUserCourseNotFound
		}

		return compactScope(ctx, st.UserCourses.Sequence(userID))
	})
}

// Reposition moves a course to a new position in the user's plan.
// position == nil moves it to the end.
func (s *userCourseServiceImpl) Reposition(ctx context.Context, userID, courseID int64, position *int32) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Users.Lock(ctx, userID); err != nil {
			return err
		}

		err := repositionMember(ctx, st.UserCourses.Sequence(userID), courseID, position)
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrUserCourseNotFound
		}

		return err
	})
}

// Reorder applies a full permutation to the user's course plan.
func (s *userCourseServiceImpl) Reorder(ctx context.Context, userID int64, positions map[int64]int32) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := requireUser(ctx, st, userID); err != nil {
			return err
		}
		if err := st.Users.Lock(ctx, userID); err != nil {
			return err
		}

		return reorderScope(ctx, st.UserCourses.Sequence(userID), positions)
	})
}

// ListByUser retrieves the user's enrollments in plan order.
func (s *userCourseServiceImpl) ListByUser(ctx context.Context, userID int64) ([]*models.UserCourse, error) {
	st := s.atomic.Reader()
	if err := requireUser(ctx, st, userID); err != nil {
		return nil, err
	}

	return st.UserCourses.ListByUser(ctx, userID)
}

// requireUser fails with ErrUserNotFound naming the missing id.
func requireUser(ctx context.Context, st *repositories.Stores, userID int64) error {
	exists, err := st.Users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %d", apperrors.ErrUserNotFound, userID)
	}

	return nil
}
