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

// UserCourseRepository handles student enrollments and their per-user order.
type UserCourseRepository struct {
	db DBTX
}

// NewUserCourseRepository creates a new user course repository
func NewUserCourseRepository(db DBTX) *UserCourseRepository {
	return &UserCourseRepository{db: db}
}

// Get retrieves one enrollment row.
func (r *UserCourseRepository) Get(ctx context.Context, userID, courseID int64) (*models.UserCourse, error) {
	query := `
		SELECT user_id, course_id, added_at, is_active, order_number
		FROM user_courses
		WHERE user_id = $1 AND course_id = $2
	`

	var row models.UserCourse
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&row.UserID, &row.CourseID, &row.AddedAt, &row.IsActive, &row.OrderNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving user course: %w", err)
	}

	return &row, nil
}

// Insert persists a new enrollment with its already-assigned order number.
func (r *UserCourseRepository) Insert(ctx context.Context, row *models.UserCourse) error {
	query := `
		INSERT INTO user_courses (user_id, course_id, is_active, order_number)
		VALUES ($1, $2, $3, $4)
		RETURNING added_at
	`

	err := r.db.QueryRow(ctx, query, row.UserID, row.CourseID, row.IsActive, row.OrderNumber).
		Scan(&row.AddedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: enrollment already exists", apperrors.ErrConflict)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user or course no longer exists", apperrors.ErrResourceNotFound)
		}
		return fmt.Errorf("error inserting user course: %w", err)
	}

	return nil
}

// Delete removes the enrollment; returns false if it did not exist.
func (r *UserCourseRepository) Delete(ctx context.Context, userID, courseID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM user_courses WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("error deleting user course: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// ListByUser retrieves a user's enrollments in plan order.
func (r *UserCourseRepository) ListByUser(ctx context.Context, userID int64) ([]*models.UserCourse, error) {
	query := `
		SELECT user_id, course_id, added_at, is_active, order_number
		FROM user_courses
		WHERE user_id = $1
		ORDER BY order_number
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing user courses: %w", err)
	}
	defer rows.Close()

	var result []*models.UserCourse
	for rows.Next() {
		var row models.UserCourse
		if err := rows.Scan(&row.UserID, &row.CourseID, &row.AddedAt, &row.IsActive, &row.OrderNumber); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	return result, rows.Err()
}

// UserIDsForCourse retrieves the ids of every user enrolled in a course.
func (r *UserCourseRepository) UserIDsForCourse(ctx context.Context, courseID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM user_courses WHERE course_id = $1 ORDER BY user_id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolled users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Sequence returns the dense ordering scope of one user's course plan.
func (r *UserCourseRepository) Sequence(userID int64) SequenceStore {
	return &sqlSequence{
		db:        r.db,
		table:     "user_courses",
		scopeCol:  "user_id",
		memberCol: "course_id",
		orderCol:  "order_number",
		scopeID:   userID,
	}
}
