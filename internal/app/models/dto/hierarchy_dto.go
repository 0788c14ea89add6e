package dto

// AddParentRequest attaches a course under a parent. OrderNumber is optional;
// when omitted the course is appended at the end of the parent's children.
type AddParentRequest struct {
	ParentCourseID int64  `json:"parentCourseId" binding:"required,gt=0"`
	OrderNumber    *int32 `json:"orderNumber"`
}

// MoveCourseRequest replaces a course's whole parent set. An empty list
// detaches the course from every parent.
type MoveCourseRequest struct {
	ParentCourseIDs []int64 `json:"parentCourseIds" binding:"required"`
}

// RepositionRequest moves one member inside its ordering scope. A null
// OrderNumber moves it to the end.
type RepositionRequest struct {
	OrderNumber *int32 `json:"orderNumber"`
}

// ReorderEntry assigns one member its new position
type ReorderEntry struct {
	ID          int64 `json:"id" binding:"required,gt=0"`
	OrderNumber int32 `json:"orderNumber" binding:"required,gt=0"`
}

// ReorderRequest carries a full permutation for one ordering scope. It must
// list every current member exactly once with positions 1..N.
type ReorderRequest struct {
	Items []ReorderEntry `json:"items" binding:"required,min=1,dive"`
}

// Positions converts the payload into the member -> position map the
// ordering engine validates. Listing the same id twice shrinks the map and is
// rejected downstream as an order conflict.
func (r *ReorderRequest) Positions() map[int64]int32 {
	positions := make(map[int64]int32, len(r.Items))
	for _, item := range r.Items {
		positions[item.ID] = item.OrderNumber
	}
	return positions
}
