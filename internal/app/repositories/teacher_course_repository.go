package repositories

import (
	"context"
	"fmt"

	"github.com/akarpenko/studyflow/internal/app/models"
)

// TeacherCourseRepository handles the teacher<->course link relation. Rows
// here are partially derived data: the hierarchy propagation step writes and
// retracts them alongside edge mutations, inside the same transaction.
type TeacherCourseRepository struct {
	db DBTX
}

// NewTeacherCourseRepository creates a new teacher course repository
func NewTeacherCourseRepository(db DBTX) *TeacherCourseRepository {
	return &TeacherCourseRepository{db: db}
}

// Insert links a teacher to a course. Returns false when the link already
// existed; the duplicate is not an error.
func (r *TeacherCourseRepository) Insert(ctx context.Context, teacherID, courseID int64) (bool, error) {
	query := `
		INSERT INTO teacher_courses (teacher_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (teacher_id, course_id) DO NOTHING
	`

	cmdTag, err := r.db.Exec(ctx, query, teacherID, courseID)
	if err != nil {
		return false, fmt.Errorf("error inserting teacher link: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// Delete removes the link; returns false if it did not exist.
func (r *TeacherCourseRepository) Delete(ctx context.Context, teacherID, courseID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM teacher_courses WHERE teacher_id = $1 AND course_id = $2`,
		teacherID, courseID)
	if err != nil {
		return false, fmt.Errorf("error deleting teacher link: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// Exists checks whether the link exists.
func (r *TeacherCourseRepository) Exists(ctx context.Context, teacherID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teacher_courses WHERE teacher_id = $1 AND course_id = $2)`,
		teacherID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teacher link: %w", err)
	}

	return exists, nil
}

// TeacherIDs retrieves the distinct teachers linked to a course.
func (r *TeacherCourseRepository) TeacherIDs(ctx context.Context, courseID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT teacher_id FROM teacher_courses WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing teacher ids: %w", err)
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

// CourseIDs retrieves the courses a teacher is linked to.
func (r *TeacherCourseRepository) CourseIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT course_id FROM teacher_courses WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing course ids: %w", err)
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

// ListByCourse retrieves the link rows of a course, newest first.
func (r *TeacherCourseRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.TeacherCourse, error) {
	query := `
		SELECT teacher_id, course_id, linked_at
		FROM teacher_courses
		WHERE course_id = $1
		ORDER BY linked_at DESC
	`

	return r.list(ctx, query, courseID)
}

// ListByTeacher retrieves the link rows of a teacher, newest first.
func (r *TeacherCourseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherCourse, error) {
	query := `
		SELECT teacher_id, course_id, linked_at
		FROM teacher_courses
		WHERE teacher_id = $1
		ORDER BY linked_at DESC
	`

	return r.list(ctx, query, teacherID)
}

func (r *TeacherCourseRepository) list(ctx context.Context, query string, arg any) ([]*models.TeacherCourse, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error listing teacher links: %w", err)
	}
	defer rows.Close()

	var links []*models.TeacherCourse
	for rows.Next() {
		var link models.TeacherCourse
		if err := rows.Scan(&link.TeacherID, &link.CourseID, &link.LinkedAt); err != nil {
			return nil, err
		}
		links = append(links, &link)
	}

	return links, rows.Err()
}

// InsertMany links one teacher to many courses in a single statement,
// skipping rows that already exist.
func (r *TeacherCourseRepository) InsertMany(ctx context.Context, teacherID int64, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO teacher_courses (teacher_id, course_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT (teacher_id, course_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, teacherID, courseIDs); err != nil {
		return fmt.Errorf("error inserting teacher links: %w", err)
	}

	return nil
}

// DeleteMany removes one teacher's links to many courses in a single statement.
func (r *TeacherCourseRepository) DeleteMany(ctx context.Context, teacherID int64, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}

	query := `DELETE FROM teacher_courses WHERE teacher_id = $1 AND course_id = ANY($2::bigint[])`

	if _, err := r.db.Exec(ctx, query, teacherID, courseIDs); err != nil {
		return fmt.Errorf("error deleting teacher links: %w", err)
	}

	return nil
}
