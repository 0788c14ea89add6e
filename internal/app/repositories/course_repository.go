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

// CourseRepository handles database operations for course rows.
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, access_level, description, is_required, course_uid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		course.Title, course.AccessLevel, course.Description, course.IsRequired, course.CourseUID,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_course_uid_key") {
			return apperrors.ErrCourseUIDExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, title, access_level, description, is_required, course_uid, created_at
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.AccessLevel,
		&course.Description,
		&course.IsRequired,
		&course.CourseUID,
		&course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetByCourseUID retrieves a course by its external import code
func (r *CourseRepository) GetByCourseUID(ctx context.Context, uid string) (*models.Course, error) {
	query := `
		SELECT id, title, access_level, description, is_required, course_uid, created_at
		FROM courses
		WHERE course_uid = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, uid).Scan(
		&course.ID,
		&course.Title,
		&course.AccessLevel,
		&course.Description,
		&course.IsRequired,
		&course.CourseUID,
		&course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course by uid: %w", err)
	}

	return &course, nil
}

// GetAll retrieves all courses
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, title, access_level, description, is_required, course_uid, created_at
		FROM courses
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.AccessLevel,
			&course.Description,
			&course.IsRequired,
			&course.CourseUID,
			&course.CreatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// GetByIDs retrieves the courses with the given ids, ascending. Missing ids
// are silently absent from the result.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, title, access_level, description, is_required, course_uid, created_at
		FROM courses
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.AccessLevel,
			&course.Description,
			&course.IsRequired,
			&course.CourseUID,
			&course.CreatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

// Update updates an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, access_level = $2, description = $3, is_required = $4, course_uid = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		course.Title, course.AccessLevel, course.Description, course.IsRequired, course.CourseUID, course.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_course_uid_key") {
			return apperrors.ErrCourseUIDExists
		}
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete deletes a course by ID
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Exists checks whether a course with the given id exists
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course existence: %w", err)
	}

	return exists, nil
}

// Lock takes row locks on the given courses in ascending id order, so that
// concurrent hierarchy mutations touching the same courses serialize instead
// of deadlocking.
func (r *CourseRepository) Lock(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id FROM courses WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return fmt.Errorf("error locking courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
	}

	return rows.Err()
}
