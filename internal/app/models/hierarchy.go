package models

// CourseParent is a directed edge of the course DAG: the course identified by
// CourseID is a child of ParentCourseID. OrderNumber is the child's position
// among its siblings under that specific parent and is always a member of the
// dense 1..N sequence for the parent's scope once the edge is committed.
type CourseParent struct {
	CourseID       int64 `json:"courseId" db:"course_id"`
	ParentCourseID int64 `json:"parentCourseId" db:"parent_course_id"`
	OrderNumber    int32 `json:"orderNumber" db:"order_number"`
}

// OrderedCourse pairs a course with its position inside one ordering scope.
type OrderedCourse struct {
	Course      *Course `json:"course"`
	OrderNumber int32   `json:"orderNumber"`
}
