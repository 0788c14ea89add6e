package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/akarpenko/studyflow/internal/app/models"
	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// HierarchyService defines the operations on the course parent graph
type HierarchyService interface {
	AddParent(ctx context.Context, courseID, parentID int64, position *int32) error
	RemoveParent(ctx context.Context, courseID, parentID int64) error
	MoveCourse(ctx context.Context, courseID int64, parentIDs []int64) (*models.Course, error)
	RepositionChild(ctx context.Context, parentID, courseID int64, position *int32) error
	ReorderChildren(ctx context.Context, parentID int64, positions map[int64]int32) error
	ListParents(ctx context.Context, courseID int64) ([]*models.CourseParent, error)
	ListChildrenOrdered(ctx context.Context, parentID int64) ([]*models.OrderedCourse, error)
	ListDescendants(ctx context.Context, courseID int64) ([]*models.Course, error)
}

// hierarchyServiceImpl implements the HierarchyService interface
type hierarchyServiceImpl struct {
	atomic        repositories.Atomic
	propagator    *linkagePropagator
	maxCycleDepth int
}

// NewHierarchyService creates a new hierarchy service instance. maxCycleDepth
// bounds the traversal used to reject cyclic edges, maxCascadeDepth bounds
// teacher link propagation.
func NewHierarchyService(atomic repositories.Atomic, maxCycleDepth, maxCascadeDepth int) HierarchyService {
	return &hierarchyServiceImpl{
		atomic:        atomic,
		propagator:    newLinkagePropagator(maxCascadeDepth),
		maxCycleDepth: maxCycleDepth,
	}
}

// AddParent attaches a course under a new parent. The edge is rejected before
// any write if it would close a cycle; an edge that already exists is a no-op.
// position == nil appends the course at the end of the parent's children.
func (s *hierarchyServiceImpl) AddParent(ctx context.Context, courseID, parentID int64, position *int32) error {
	if courseID == parentID {
		return apperrors.ErrSelfParent
	}

	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, uniqueSorted([]int64{courseID, parentID})); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, courseID, parentID); err != nil {
			return err
		}

		exists, err := st.Edges.EdgeExists(ctx, courseID, parentID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		if err := s.checkNoCycle(ctx, st, courseID, parentID); err != nil {
			return err
		}

		pos, err := placeMember(ctx, st.Edges.ChildSequence(parentID), courseID, position)
		if err != nil {
			return err
		}
		if err := st.Edges.InsertEdge(ctx, courseID, parentID, pos); err != nil {
			return err
		}

		return s.propagator.onEdgeAdded(ctx, st, courseID, parentID)
	})
}

// RemoveParent detaches a course from one parent, compacts the vacated
// sibling scope and retracts teacher links that lose their last path.
func (s *hierarchyServiceImpl) RemoveParent(ctx context.Context, courseID, parentID int64) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, uniqueSorted([]int64{courseID, parentID})); err != nil {
			return err
		}

		exists, err := st.Edges.EdgeExists(ctx, courseID, parentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrParentLinkNotFound
		}

		// Retraction reads the pre-delete state.
		if err := s.propagator.onEdgeRemoved(ctx, st, courseID, parentID); err != nil {
			return err
		}

		if _, err := st.Edges.DeleteEdge(ctx, courseID, parentID); err != nil {
			return err
		}

		return compactScope(ctx, st.Edges.ChildSequence(parentID))
	})
}

// MoveCourse replaces a course's whole parent set in one transaction. Every
// structural check runs before the first write; a rejected move leaves the
// graph and every sibling ordering untouched.
func (s *hierarchyServiceImpl) MoveCourse(ctx context.Context, courseID int64, parentIDs []int64) (*models.Course, error) {
	seen := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		if id == courseID {
			return nil, apperrors.ErrSelfParent
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: parent %d listed twice", apperrors.ErrDuplicateParents, id)
		}
		seen[id] = true
	}

	var course *models.Course
	err := s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := lockCourseGraph(ctx, st, append([]int64{courseID}, parentIDs...),
			func(ctx context.Context) ([]int64, error) {
				return st.Edges.ParentIDs(ctx, courseID)
			}); err != nil {
			return err
		}

		oldIDs, err := st.Edges.ParentIDs(ctx, courseID)
		if err != nil {
			return err
		}

		course, err = st.Courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		for _, parentID := range parentIDs {
			if err := requireCourses(ctx, st, parentID); err != nil {
				return err
			}
		}

		descendants, err := descendantIDs(ctx, st.Edges, courseID, s.maxCycleDepth)
		if err != nil {
			return err
		}
		inSubtree := make(map[int64]bool, len(descendants))
		for _, id := range descendants {
			inSubtree[id] = true
		}
		for _, parentID := range parentIDs {
			if inSubtree[parentID] {
				return apperrors.NewCycleError(
					fmt.Sprintf("course %d is a descendant of course %d", parentID, courseID), parentID)
			}
		}

		oldSet := make(map[int64]bool, len(oldIDs))
		for _, id := range oldIDs {
			oldSet[id] = true
		}

		for _, parentID := range oldIDs {
			if seen[parentID] {
				continue
			}
			if err := s.propagator.onEdgeRemoved(ctx, st, courseID, parentID); err != nil {
				return err
			}
			if _, err := st.Edges.DeleteEdge(ctx, courseID, parentID); err != nil {
				return err
			}
			if err := compactScope(ctx, st.Edges.ChildSequence(parentID)); err != nil {
				return err
			}
		}

		for _, parentID := range parentIDs {
			if oldSet[parentID] {
				continue
			}
			pos, err := placeMember(ctx, st.Edges.ChildSequence(parentID), courseID, nil)
			if err != nil {
				return err
			}
			if err := st.Edges.InsertEdge(ctx, courseID, parentID, pos); err != nil {
				return err
			}
			if err := s.propagator.onEdgeAdded(ctx, st, courseID, parentID); err != nil {
				return err
			}
		}

		course.Parents, err = st.Edges.ParentsOf(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return course, nil
}

// RepositionChild moves a course to a new position among one parent's
// children. position == nil moves it to the end.
func (s *hierarchyServiceImpl) RepositionChild(ctx context.Context, parentID, courseID int64, position *int32) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, []int64{parentID}); err != nil {
			return err
		}

		exists, err := st.Edges.EdgeExists(ctx, courseID, parentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrParentLinkNotFound
		}

		return repositionMember(ctx, st.Edges.ChildSequence(parentID), courseID, position)
	})
}

// ReorderChildren applies a full permutation to one parent's child ordering.
func (s *hierarchyServiceImpl) ReorderChildren(ctx context.Context, parentID int64, positions map[int64]int32) error {
	return s.atomic.InTx(ctx, func(ctx context.Context, st *repositories.Stores) error {
		if err := st.Courses.Lock(ctx, []int64{parentID}); err != nil {
			return err
		}
		if err := requireCourses(ctx, st, parentID); err != nil {
			return err
		}

		return reorderScope(ctx, st.Edges.ChildSequence(parentID), positions)
	})
}

// ListParents retrieves a course's parent edges.
func (s *hierarchyServiceImpl) ListParents(ctx context.Context, courseID int64) ([]*models.CourseParent, error) {
	st := s.atomic.Reader()
	if err := requireCourses(ctx, st, courseID); err != nil {
		return nil, err
	}

	return st.Edges.ParentsOf(ctx, courseID)
}

// ListChildrenOrdered retrieves a parent's children in sibling order.
func (s *hierarchyServiceImpl) ListChildrenOrdered(ctx context.Context, parentID int64) ([]*models.OrderedCourse, error) {
	st := s.atomic.Reader()
	if err := requireCourses(ctx, st, parentID); err != nil {
		return nil, err
	}

	return st.Edges.ChildrenOrdered(ctx, parentID)
}

// ListDescendants retrieves every course reachable from the given one through
// child edges, origin excluded.
func (s *hierarchyServiceImpl) ListDescendants(ctx context.Context, courseID int64) ([]*models.Course, error) {
	st := s.atomic.Reader()
	if err := requireCourses(ctx, st, courseID); err != nil {
		return nil, err
	}

	ids, err := descendantIDs(ctx, st.Edges, courseID, s.maxCycleDepth)
	if err != nil {
		return nil, err
	}

	return st.Courses.GetByIDs(ctx, ids)
}

// checkNoCycle rejects the prospective edge courseID->parentID when the
// parent already sits in the course's descendant subtree.
func (s *hierarchyServiceImpl) checkNoCycle(ctx context.Context, st *repositories.Stores, courseID, parentID int64) error {
	descendants, err := descendantIDs(ctx, st.Edges, courseID, s.maxCycleDepth)
	if err != nil {
		return err
	}

	for _, id := range descendants {
		if id == parentID {
			return apperrors.NewCycleError(
				fmt.Sprintf("course %d is a descendant of course %d", parentID, courseID), parentID)
		}
	}

	return nil
}

// requireCourses fails with ErrCourseNotFound naming the first missing id.
func requireCourses(ctx context.Context, st *repositories.Stores, ids ...int64) error {
	for _, id := range ids {
		exists, err := st.Courses.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: course %d", apperrors.ErrCourseNotFound, id)
		}
	}

	return nil
}

// lockCourseGraph locks the fixed course ids plus every id read reports,
// re-reading after each acquisition. An edge committed between a read and the
// lock acquisition surfaces in the next pass, so the loop only stops once
// every id the current edge set names is locked.
func lockCourseGraph(ctx context.Context, st *repositories.Stores, fixed []int64, read func(context.Context) ([]int64, error)) error {
	locked := make(map[int64]bool)
	pending := uniqueSorted(fixed)
	for len(pending) > 0 {
		if err := st.Courses.Lock(ctx, pending); err != nil {
			return err
		}
		for _, id := range pending {
			locked[id] = true
		}

		ids, err := read(ctx)
		if err != nil {
			return err
		}
		pending = pending[:0]
		for _, id := range uniqueSorted(ids) {
			if !locked[id] {
				pending = append(pending, id)
			}
		}
	}

	return nil
}

// uniqueSorted deduplicates and sorts ids ascending, the lock acquisition
// order used everywhere.
func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
