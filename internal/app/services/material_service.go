package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// MaterialService defines the operations on course materials
type MaterialService interface {
	CreateMaterial(ctx context.Context, material *models.Material, position *int32) error
	GetMaterialByID(ctx context.Context, id int64) (*models.Material, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error)
	UpdateMaterial(ctx context.Context, material *models.Material) error
	DeleteMaterial(ctx context.Context, id int64) error
	Reposition(ctx context.Context, id int64, position *int32) error
	Reorder(ctx context.Context, courseID int64, positions map[int64]int32) error
}

// materialServiceImpl implements the MaterialService interface
type materialServiceImpl struct {
	atomic repositories.Atomic
}

// NewMaterialService creates a new material service instance
func NewMaterialService(atomic repositories.Atomic) MaterialService {
	return &materialServiceImpl{atomic: atomic}
}

// validateMaterial validates material data before database operations
func validateMaterial(material *models.Material) error {
	if material == nil {
		return fmt.Errorf("%w: material is nil", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(material.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}

	if !models.ValidContentType(material.ContentType) {
		return fmt.Errorf("%w: unknown content type %q", apperrors.ErrValidationFailed, material.ContentType)
	}

	return nil
}

// CreateMaterial creates a material at the given position in its course, or
// at the end when position is nil.
func (s *materialServiceImpl) CreateMaterial(ctx context.Context, material *models.Material, position *int32) error {
	if err := validateMaterial(material); err != nil {
		return err
	}

	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, []int64{material.CourseID}); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, material.CourseID); err != nil {
			return err
		}

		pos, err := placeMember(ctx, st.Materials.Sequence(material.CourseID), noMemberID, position)
		if err != nil {
			return err
		}
		material.OrderPosition = pos

		return st.Materials.Create(ctx, material)
	})
}

// GetMaterialByID retrieves a material by ID
func (s *materialServiceImpl) GetMaterialByID(ctx context.Context, id int64) (*models.Material, error) {
	return s.atomic.Reader().Materials.GetByID(ctx, id)
}

// ListByCourse retrieves a course's materials in order.
func (s *materialServiceImpl) ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error) {
	st := s.atomic.Reader()
	if err := requireCourses(ctx, st, courseID); err != nil {
		return nil, err
	}

	return st.Materials.ListByCourse(ctx, courseID)
}

// UpdateMaterial updates a material's content fields. Ordering is changed
// through Reposition and Reorder only.
func (s *materialServiceImpl) UpdateMaterial(ctx context.Context, material *models.Material) error {
	if err := validateMaterial(material); err != nil {
		return err
	}
	if material.ID <= 0 {
		return fmt.Errorf("%w: invalid material ID", apperrors.ErrValidationFailed)
	}

	return s.atomic.Reader().Materials.Update(ctx, material)
}

// DeleteMaterial removes a material and compacts the course's remaining
// material order.
func (s *materialServiceImpl) DeleteMaterial(ctx context.Context, id int64) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		material, err := st.Materials.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := st.Courses.Lock(ctx, []int64{material.CourseID}); err != nil {
			return err
		}

		removed, err := st.Materials.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.ErrMaterialNotFound
		}

		return compactScope(ctx, st.Materials.Sequence(material.CourseID))
	})
}

// Reposition moves a material to a new position within its course.
// position == nil moves it to the end.
func (s *materialServiceImpl) Reposition(ctx context.Context, id int64, position *int32) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		material, err := st.Materials.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := st.Courses.Lock(ctx, []int64{material.CourseID}); err != nil {
			return err
		}

		return repositionMember(ctx, st.Materials.Sequence(material.CourseID), id, position)
	})
}

// Reorder applies a full permutation to a course's material ordering.
func (s *materialServiceImpl) Reorder(ctx context.Context, courseID int64, positions map[int64]int32) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, []int64{courseID}); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, courseID); err != nil {
			return err
		}

		return reorderScope(ctx, st.Materials.Sequence(courseID), positions)
	})
}
