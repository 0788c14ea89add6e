package repositories

import (
	"context"
	"fmt"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
	"github.com/akarpenko/studyflow/internal/pkg/dberrors"
)

// CourseParentRepository handles the parent edges of the course DAG.
type CourseParentRepository struct {
	db DBTX
}

// NewCourseParentRepository creates a new course parent repository
func NewCourseParentRepository(db DBTX) *CourseParentRepository {
	return &CourseParentRepository{db: db}
}

// ParentsOf retrieves the course's parent edges with order numbers.
func (r *CourseParentRepository) ParentsOf(ctx context.Context, courseID int64) ([]*models.CourseParent, error) {
	query := `
		SELECT course_id, parent_course_id, order_number
		FROM course_parents
		WHERE course_id = $1
		ORDER BY parent_course_id
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing parents: %w", err)
	}
	defer rows.Close()

	var edges []*models.CourseParent
	for rows.Next() {
		var edge models.CourseParent
		if err := rows.Scan(&edge.CourseID, &edge.ParentCourseID, &edge.OrderNumber); err != nil {
			return nil, err
		}
		edges = append(edges, &edge)
	}

	return edges, rows.Err()
}

// ParentIDs retrieves only the parent course ids.
func (r *CourseParentRepository) ParentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT parent_course_id FROM course_parents WHERE course_id = $1 ORDER BY parent_course_id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing parent ids: %w", err)
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

// ChildIDs retrieves the direct child course ids of a parent. This is the
// adjacency read the breadth-first traversals are built on.
func (r *CourseParentRepository) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT course_id FROM course_parents WHERE parent_course_id = $1 ORDER BY order_number`, parentID)
	if err != nil {
		return nil, fmt.Errorf("error listing child ids: %w", err)
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

// ChildrenOrdered retrieves a parent's children joined with course rows, in
// sibling order.
func (r *CourseParentRepository) ChildrenOrdered(ctx context.Context, parentID int64) ([]*models.OrderedCourse, error) {
	query := `
		SELECT c.id, c.title, c.access_level, c.description, c.is_required, c.course_uid, c.created_at,
		       cp.order_number
		FROM course_parents cp
		JOIN courses c ON c.id = cp.course_id
		WHERE cp.parent_course_id = $1
		ORDER BY cp.order_number
	`

	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("error listing ordered children: %w", err)
	}
	defer rows.Close()

	var children []*models.OrderedCourse
	for rows.Next() {
		var course models.Course
		var orderNumber int32
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.AccessLevel,
			&course.Description,
			&course.IsRequired,
			&course.CourseUID,
			&course.CreatedAt,
			&orderNumber,
		); err != nil {
			return nil, err
		}
		children = append(children, &models.OrderedCourse{Course: &course, OrderNumber: orderNumber})
	}

	return children, rows.Err()
}

// EdgeExists checks whether the edge is already present.
func (r *CourseParentRepository) EdgeExists(ctx context.Context, courseID, parentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_parents WHERE course_id = $1 AND parent_course_id = $2)`,
		courseID, parentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking edge existence: %w", err)
	}

	return exists, nil
}

// HasParents checks whether the course has any parent edge.
func (r *CourseParentRepository) HasParents(ctx context.Context, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_parents WHERE course_id = $1)`, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking parents: %w", err)
	}

	return exists, nil
}

// InsertEdge persists a new edge with its already-assigned order number.
func (r *CourseParentRepository) InsertEdge(ctx context.Context, courseID, parentID int64, orderNumber int32) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO course_parents (course_id, parent_course_id, order_number) VALUES ($1, $2, $3)`,
		courseID, parentID, orderNumber)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error inserting edge: %w", err)
	}

	return nil
}

// DeleteEdge removes the edge; returns false if it did not exist.
func (r *CourseParentRepository) DeleteEdge(ctx context.Context, courseID, parentID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM course_parents WHERE course_id = $1 AND parent_course_id = $2`,
		courseID, parentID)
	if err != nil {
		return false, fmt.Errorf("error deleting edge: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// ChildSequence returns the dense ordering scope of one parent's children.
func (r *CourseParentRepository) ChildSequence(parentID int64) SequenceStore {
	return &sqlSequence{
		db:        r.db,
		table:     "course_parents",
		scopeCol:  "parent_course_id",
		memberCol: "course_id",
		orderCol:  "order_number",
		scopeID:   parentID,
	}
}
