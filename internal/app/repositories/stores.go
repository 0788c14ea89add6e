package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akarpenko/studyflow/internal/app/models"
)

// DBTX is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repositories run against either, so the same code serves both plain reads
// and transactional mutations.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SequenceMember is one row of a dense ordering scope.
type SequenceMember struct {
	ID       int64
	Position int32
}

// SequenceStore gives access to a single ordering scope: one parent's
// children, one user's course plan, or one course's materials. Positions in a
// committed scope are always exactly 1..N.
type SequenceStore interface {
	// Members returns the scope rows ordered by position.
	Members(ctx context.Context) ([]SequenceMember, error)
	// MaxPosition returns the highest position in the scope, 0 when empty.
	MaxPosition(ctx context.Context) (int32, error)
	// PositionOf returns the member's position; ok is false when the member
	// is not part of the scope.
	PositionOf(ctx context.Context, memberID int64) (pos int32, ok bool, err error)
	// ShiftRange adds delta to every position p with from <= p <= to,
	// skipping exceptID. to == 0 means unbounded.
	ShiftRange(ctx context.Context, from, to, delta int32, exceptID int64) error
	// SetPosition assigns the member's position directly.
	SetPosition(ctx context.Context, memberID int64, pos int32) error
	// Resequence recomputes the whole scope to 1..N in one pass, keeping the
	// current relative order. Used after deletes instead of per-row shifting.
	Resequence(ctx context.Context) error
	// ApplyPermutation bulk-assigns positions. This is the internal write
	// path for validated batch reorders; it must not go through ShiftRange.
	ApplyPermutation(ctx context.Context, positions map[int64]int32) error
}

// CourseStore persists course rows.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByCourseUID(ctx context.Context, uid string) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// Lock takes row locks on the given courses in ascending id order. Used
	// to serialize hierarchy mutations per affected subgraph.
	Lock(ctx context.Context, ids []int64) error
}

// EdgeStore persists the parent edges of the course DAG.
type EdgeStore interface {
	ParentsOf(ctx context.Context, courseID int64) ([]*models.CourseParent, error)
	ParentIDs(ctx context.Context, courseID int64) ([]int64, error)
	ChildIDs(ctx context.Context, parentID int64) ([]int64, error)
	ChildrenOrdered(ctx context.Context, parentID int64) ([]*models.OrderedCourse, error)
	EdgeExists(ctx context.Context, courseID, parentID int64) (bool, error)
	HasParents(ctx context.Context, courseID int64) (bool, error)
	InsertEdge(ctx context.Context, courseID, parentID int64, orderNumber int32) error
	DeleteEdge(ctx context.Context, courseID, parentID int64) (bool, error)
	// ChildSequence returns the ordering scope of one parent's children.
	ChildSequence(parentID int64) SequenceStore
}

// TeacherLinkStore persists the derived teacher<->course relation.
type TeacherLinkStore interface {
	// Insert adds a link; returns false when it already existed.
	Insert(ctx context.Context, teacherID, courseID int64) (bool, error)
	Delete(ctx context.Context, teacherID, courseID int64) (bool, error)
	Exists(ctx context.Context, teacherID, courseID int64) (bool, error)
	TeacherIDs(ctx context.Context, courseID int64) ([]int64, error)
	CourseIDs(ctx context.Context, teacherID int64) ([]int64, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.TeacherCourse, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TeacherCourse, error)
	// InsertMany links one teacher to many courses, skipping existing rows.
	InsertMany(ctx context.Context, teacherID int64, courseIDs []int64) error
	// DeleteMany removes one teacher's links to many courses.
	DeleteMany(ctx context.Context, teacherID int64, courseIDs []int64) error
}

// UserCourseStore persists student enrollments and their per-user ordering.
type UserCourseStore interface {
	Get(ctx context.Context, userID, courseID int64) (*models.UserCourse, error)
	Insert(ctx context.Context, row *models.UserCourse) error
	Delete(ctx context.Context, userID, courseID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.UserCourse, error)
	// UserIDsForCourse returns the users enrolled in a course. Needed to
	// compact their plan scopes when the course itself is deleted.
	UserIDsForCourse(ctx context.Context, courseID int64) ([]int64, error)
	Sequence(userID int64) SequenceStore
}

// MaterialStore persists course materials and their per-course ordering.
type MaterialStore interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id int64) (bool, error)
	Sequence(courseID int64) SequenceStore
}

// UserStore is the read-only account lookup this service needs.
type UserStore interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Lock takes a row lock on the user, serializing mutations of the user's
	// course plan scope.
	Lock(ctx context.Context, id int64) error
}

// Stores bundles every store over one database handle (pool or transaction).
type Stores struct {
	Courses      CourseStore
	Edges        EdgeStore
	TeacherLinks TeacherLinkStore
	UserCourses  UserCourseStore
	Materials    MaterialStore
	Users        UserStore
}

// Atomic is the unit-of-work boundary handed to services. Everything done
// inside fn commits or rolls back as one transaction.
type Atomic interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s *Stores) error) error
	// Reader returns pool-bound stores for read paths outside a transaction.
	Reader() *Stores
}
