package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/akarpenko/studyflow/internal/db"
)

// Repositories wires the pgx-backed stores to a connection pool and
// implements the Atomic unit-of-work boundary on top of
// db.PostgresDB.WithTransaction.
type Repositories struct {
	database *db.PostgresDB
	reader   *Stores
}

// NewRepositories creates the store bundle over the given database.
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		database: database,
		reader:   newStores(database.Pool),
	}
}

// newStores builds a store bundle bound to one database handle.
func newStores(q DBTX) *Stores {
	return &Stores{
		Courses:      NewCourseRepository(q),
		Edges:        NewCourseParentRepository(q),
		TeacherLinks: NewTeacherCourseRepository(q),
		UserCourses:  NewUserCourseRepository(q),
		Materials:    NewMaterialRepository(q),
		Users:        NewUserRepository(q),
	}
}

// Reader returns pool-bound stores for reads outside a transaction.
func (r *Repositories) Reader() *Stores {
	return r.reader
}

// InTx runs fn against transaction-bound stores. Any error rolls the whole
// transaction back; partial hierarchy states are never observable.
func (r *Repositories) InTx(ctx context.Context, fn func(ctx context.Context, s *Stores) error) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newStores(tx))
	})
}
