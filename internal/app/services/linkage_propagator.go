package services

import (
	"context"
	"fmt"

	"github.com/akarpenko/studyflow/internal/app/repositories"
)

// linkagePropagator keeps the derived teacher<->course relation consistent
// with the hierarchy: a teacher linked to a root course is linked to its whole
// descendant subtree, and losing the last linked path to a course retracts the
// link. It runs inside the caller's transaction, so edge mutation and link
// reconciliation commit together.
type linkagePropagator struct {
	maxDepth int
}

func newLinkagePropagator(maxDepth int) *linkagePropagator {
	return &linkagePropagator{maxDepth: maxDepth}
}

// onEdgeAdded grants the new parent's teachers access to the child and its
// descendants. Called after the edge row is inserted.
func (p *linkagePropagator) onEdgeAdded(ctx context.Context, s *repositories.Stores, childID, parentID int64) error {
	teacherIDs, err := s.TeacherLinks.TeacherIDs(ctx, parentID)
	if err != nil {
		return err
	}
	if len(teacherIDs) == 0 {
		return nil
	}

	subtree, err := descendantIDs(ctx, s.Edges, childID, p.maxDepth)
	if err != nil {
		return err
	}
	targets := append([]int64{childID}, subtree...)

	for _, teacherID := range teacherIDs {
		if err := s.TeacherLinks.InsertMany(ctx, teacherID, targets); err != nil {
			return err
		}
	}

	return nil
}

// onEdgeRemoved retracts teacher links that only existed because of the edge
// being removed. It must run BEFORE the edge row is deleted: it reads the
// current graph and link state and simulates the removal, so the retraction
// set is computed from a consistent snapshot.
//
// A link to a course in the child's subtree survives only while some parent
// of that course still carries the same teacher's link; the check iterates to
// a fixpoint because dropping one node can orphan the next.
func (p *linkagePropagator) onEdgeRemoved(ctx context.Context, s *repositories.Stores, childID, parentID int64) error {
	affected, err := p.affectedTeachers(ctx, s, childID, parentID)
	if err != nil {
		return err
	}
	if len(affected) == 0 {
		return nil
	}

	subtree, err := descendantIDs(ctx, s.Edges, childID, p.maxDepth)
	if err != nil {
		return err
	}
	nodes := append([]int64{childID}, subtree...)

	parentsOf := make(map[int64][]int64, len(nodes))
	for _, node := range nodes {
		parents, err := s.Edges.ParentIDs(ctx, node)
		if err != nil {
			return err
		}
		if node == childID {
			parents = without(parents, parentID)
		}
		parentsOf[node] = parents
	}

	for _, teacherID := range affected {
		drops, err := p.retract(ctx, s, teacherID, nodes, parentsOf)
		if err != nil {
			return err
		}
		if err := s.TeacherLinks.DeleteMany(ctx, teacherID, drops); err != nil {
			return err
		}
	}

	return nil
}

// onTeacherLinked links a teacher to a root course and grants the whole
// descendant subtree. Re-linking an existing teacher is a no-op for the root
// row but still repairs missing subtree links.
func (p *linkagePropagator) onTeacherLinked(ctx context.Context, s *repositories.Stores, teacherID, courseID int64) error {
	if _, err := s.TeacherLinks.Insert(ctx, teacherID, courseID); err != nil {
		return err
	}

	subtree, err := descendantIDs(ctx, s.Edges, courseID, p.maxDepth)
	if err != nil {
		return err
	}

	return s.TeacherLinks.InsertMany(ctx, teacherID, subtree)
}

// onTeacherUnlinked removes a teacher's root link and retracts the subtree
// links that have no other linked path left. Returns false when the root link
// did not exist.
func (p *linkagePropagator) onTeacherUnlinked(ctx context.Context, s *repositories.Stores, teacherID, courseID int64) (bool, error) {
	removed, err := s.TeacherLinks.Delete(ctx, teacherID, courseID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	subtree, err := descendantIDs(ctx, s.Edges, courseID, p.maxDepth)
	if err != nil {
		return false, err
	}
	if len(subtree) == 0 {
		return true, nil
	}

	parentsOf := make(map[int64][]int64, len(subtree))
	for _, node := range subtree {
		parents, err := s.Edges.ParentIDs(ctx, node)
		if err != nil {
			return false, err
		}
		parentsOf[node] = parents
	}

	drops, err := p.retract(ctx, s, teacherID, subtree, parentsOf)
	if err != nil {
		return false, err
	}

	return true, s.TeacherLinks.DeleteMany(ctx, teacherID, drops)
}

// affectedTeachers returns the teachers whose links can change when the edge
// child->parent goes away: anyone linked to the parent or to the child. A
// teacher linked deeper in the subtree through some other course keeps that
// path regardless of this edge.
func (p *linkagePropagator) affectedTeachers(ctx context.Context, s *repositories.Stores, childID, parentID int64) ([]int64, error) {
	parentTeachers, err := s.TeacherLinks.TeacherIDs(ctx, parentID)
	if err != nil {
		return nil, err
	}
	childTeachers, err := s.TeacherLinks.TeacherIDs(ctx, childID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(parentTeachers)+len(childTeachers))
	var affected []int64
	for _, id := range append(parentTeachers, childTeachers...) {
		if !seen[id] {
			seen[id] = true
			affected = append(affected, id)
		}
	}

	return affected, nil
}

// retract computes which of the given nodes lose the teacher's link once the
// parent sets in parentsOf are in effect. nodes come in breadth-first order,
// so most runs settle in one pass; the loop repeats until no link is dropped.
func (p *linkagePropagator) retract(ctx context.Context, s *repositories.Stores, teacherID int64, nodes []int64, parentsOf map[int64][]int64) ([]int64, error) {
	courseIDs, err := s.TeacherLinks.CourseIDs(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	linked := make(map[int64]bool, len(courseIDs))
	for _, id := range courseIDs {
		linked[id] = true
	}

	var drops []int64
	for changed := true; changed; {
		changed = false
		for _, node := range nodes {
			if !linked[node] {
				continue
			}
			keep := false
			for _, parent := range parentsOf[node] {
				if linked[parent] {
					keep = true
					break
				}
			}
			if !keep {
				delete(linked, node)
				drops = append(drops, node)
				changed = true
			}
		}
	}

	return drops, nil
}

// descendantIDs walks child edges breadth-first from rootID and returns every
// reached course id, origin excluded. maxDepth bounds the walk so a corrupted
// edge set cannot loop forever.
func descendantIDs(ctx context.Context, edges repositories.EdgeStore, rootID int64, maxDepth int) ([]int64, error) {
	visited := map[int64]bool{rootID: true}
	frontier := []int64{rootID}

	var result []int64
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []int64
		for _, id := range frontier {
			children, err := edges.ChildIDs(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("error walking descendants of course %d: %w", rootID, err)
			}
			for _, childID := range children {
				if !visited[childID] {
					visited[childID] = true
					result = append(result, childID)
					next = append(next, childID)
				}
			}
		}
		frontier = next
	}

	return result, nil
}

func without(ids []int64, drop int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
