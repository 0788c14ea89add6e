package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
	"github.com/akarpenko/studyflow/internal/pkg/dberrors"
)

// MaterialRepository handles course materials and their per-course order.
type MaterialRepository struct {
	db DBTX
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db DBTX) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create persists a new material with its already-assigned order position.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	query := `
		INSERT INTO materials (course_id, title, content_type, content_url, description, caption,
		                       is_active, external_uid, order_position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		material.CourseID, material.Title, material.ContentType, material.ContentURL,
		material.Description, material.Caption, material.IsActive, material.ExternalUID,
		material.OrderPosition,
	).Scan(&material.ID, &material.CreatedAt, &material.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_materials_course_external_uid") {
			return apperrors.ErrMaterialUIDExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating material: %w", err)
	}

	return nil
}

// GetByID retrieves a material by ID
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	query := `
		SELECT id, course_id, title, content_type, content_url, description, caption,
		       is_active, external_uid, order_position, created_at, updated_at
		FROM materials
		WHERE id = $1
	`

	var material models.Material
	err := r.db.QueryRow(ctx, query, id).Scan(
		&material.ID,
		&material.CourseID,
		&material.Title,
		&material.ContentType,
		&material.ContentURL,
		&material.Description,
		&material.Caption,
		&material.IsActive,
		&material.ExternalUID,
		&material.OrderPosition,
		&material.CreatedAt,
		&material.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error retrieving material: %w", err)
	}

	return &material, nil
}

// ListByCourse retrieves a course's materials in order.
func (r *MaterialRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error) {
	query := `
		SELECT id, course_id, title, content_type, content_url, description, caption,
		       is_active, external_uid, order_position, created_at, updated_at
		FROM materials
		WHERE course_id = $1
		ORDER BY order_position
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing materials: %w", err)
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		var material models.Material
		if err := rows.Scan(
			&material.ID,
			&material.CourseID,
			&material.Title,
			&material.ContentType,
			&material.ContentURL,
			&material.Description,
			&material.Caption,
			&material.IsActive,
			&material.ExternalUID,
			&material.OrderPosition,
			&material.CreatedAt,
			&material.UpdatedAt,
		); err != nil {
			return nil, err
		}
		materials = append(materials, &material)
	}

	return materials, rows.Err()
}

// Update updates a material's content fields. Order changes go through the
// sequence scope, not through this method.
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	query := `
		UPDATE materials
		SET title = $1, content_type = $2, content_url = $3, description = $4,
		    caption = $5, is_active = $6, external_uid = $7, updated_at = now()
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		material.Title, material.ContentType, material.ContentURL, material.Description,
		material.Caption, material.IsActive, material.ExternalUID, material.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_materials_course_external_uid") {
			return apperrors.ErrMaterialUIDExists
		}
		return fmt.Errorf("error updating material: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}

	return nil
}

// Delete deletes a material; returns false if it did not exist.
func (r *MaterialRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting material: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// Sequence returns the dense ordering scope of one course's materials.
func (r *MaterialRepository) Sequence(courseID int64) SequenceStore {
	return &sqlSequence{
		db:        r.db,
		table:     "materials",
		scopeCol:  "course_id",
		memberCol: "id",
		orderCol:  "order_position",
		scopeID:   courseID,
	}
}
