package services

import (
	"context"
	"fmt"

	"github.com/akarpenko/studyflow/internal/app/repositories"
	"github.com/akarpenko/studyflow/internal/pkg/apperrors"
)

// The functions in this file maintain the dense ordering invariant of a single
// scope: committed positions are always exactly 1..N. Every mutation of a
// course_parents, user_courses or materials scope goes through here, inside
// the caller's transaction with the scope anchor row locked.

// noMemberID is the shift exclusion for members whose row does not exist yet.
// No current row carries it, so the whole tail moves.
const noMemberID int64 = 0

// placeMember computes the position for a new scope member and shifts the
// existing tail to make room. pos == nil appends at the end. Explicit
// positions past the end are treated as "append". The caller inserts the row
// with the returned position afterwards. memberID is noMemberID when the row
// is not inserted yet.
func placeMember(ctx context.Context, seq repositories.SequenceStore, memberID int64, pos *int32) (int32, error) {
	max, err := seq.MaxPosition(ctx)
	if err != nil {
		return 0, err
	}

	if pos == nil {
		return max + 1, nil
	}

	p := *pos
	if p < 1 {
		return 0, fmt.Errorf("%w: got %d", apperrors.ErrInvalidOrderPosition, p)
	}
	if p > max+1 {
		p = max + 1
	}

	if p <= max {
		if err := seq.ShiftRange(ctx, p, 0, 1, memberID); err != nil {
			return 0, err
		}
	}

	return p, nil
}

// repositionMember moves an existing member to a new position, shifting the
// rows in between. pos == nil moves the member to the end of the scope.
func repositionMember(ctx context.Context, seq repositories.SequenceStore, memberID int64, pos *int32) error {
	old, ok, err := seq.PositionOf(ctx, memberID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrResourceNotFound
	}

	max, err := seq.MaxPosition(ctx)
	if err != nil {
		return err
	}

	target := max
	if pos != nil {
		target = *pos
		if target < 1 {
			return fmt.Errorf("%w: got %d", apperrors.ErrInvalidOrderPosition, target)
		}
		if target > max {
			target = max
		}
	}

	switch {
	case target == old:
		return nil
	case target > old:
		if err := seq.ShiftRange(ctx, old+1, target, -1, memberID); err != nil {
			return err
		}
	default:
		if err := seq.ShiftRange(ctx, target, old-1, 1, memberID); err != nil {
			return err
		}
	}

	return seq.SetPosition(ctx, memberID, target)
}

// compactScope closes the gap left by a deleted member. One recomputation
// pass per scope, not per-row downshifts.
func compactScope(ctx context.Context, seq repositories.SequenceStore) error {
	return seq.Resequence(ctx)
}

// reorderScope validates that positions is a permutation of 1..N over exactly
// the scope's current members, then applies it in one bulk write. Rejected
// payloads never reach the store.
func reorderScope(ctx context.Context, seq repositories.SequenceStore, positions map[int64]int32) error {
	members, err := seq.Members(ctx)
	if err != nil {
		return err
	}

	if len(positions) != len(members) {
		return fmt.Errorf("%w: payload has %d entries, scope has %d members",
			apperrors.ErrOrderConflict, len(positions), len(members))
	}

	n := int32(len(members))
	seen := make(map[int32]int64, len(members))
	for _, m := range members {
		p, ok := positions[m.ID]
		if !ok {
			return fmt.Errorf("%w: member %d missing from payload", apperrors.ErrOrderConflict, m.ID)
		}
		if p < 1 || p > n {
			return fmt.Errorf("%w: position %d for member %d out of range 1..%d",
				apperrors.ErrOrderConflict, p, m.ID, n)
		}
		if other, dup := seen[p]; dup {
			return fmt.Errorf("%w: position %d assigned to members %d and %d",
				apperrors.ErrOrderConflict, p, other, m.ID)
		}
		seen[p] = m.ID
	}

	return seq.ApplyPermutation(ctx, positions)
}
