package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// sqlSequence implements SequenceStore over one (table, scope column, member
// column) triple. The same implementation backs all three ordering scopes:
// course_parents by parent, user_courses by user, materials by course.
// Identifier parts are compile-time constants supplied by the owning
// repository, never user input.
type sqlSequence struct {
	db        DBTX
	table     string
	scopeCol  string
	memberCol string
	orderCol  string
	scopeID   int64
}

func (s *sqlSequence) Members(ctx context.Context) ([]SequenceMember, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s`,
		s.memberCol, s.orderCol, s.table, s.scopeCol, s.orderCol)

	rows, err := s.db.Query(ctx, query, s.scopeID)
	if err != nil {
		return nil, fmt.Errorf("error listing sequence members: %w", err)
	}
	defer rows.Close()

	var members []SequenceMember
	for rows.Next() {
		var m SequenceMember
		if err := rows.Scan(&m.ID, &m.Position); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (s *sqlSequence) MaxPosition(ctx context.Context) (int32, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(MAX(%s), 0) FROM %s WHERE %s = $1`,
		s.orderCol, s.table, s.scopeCol)

	var max int32
	if err := s.db.QueryRow(ctx, query, s.scopeID).Scan(&max); err != nil {
		return 0, fmt.Errorf("error reading max position: %w", err)
	}

	return max, nil
}

func (s *sqlSequence) PositionOf(ctx context.Context, memberID int64) (int32, bool, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		s.orderCol, s.table, s.scopeCol, s.memberCol)

	var pos int32
	err := s.db.QueryRow(ctx, query, s.scopeID, memberID).Scan(&pos)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error reading member position: %w", err)
	}

	return pos, true, nil
}

func (s *sqlSequence) ShiftRange(ctx context.Context, from, to, delta int32, exceptID int64) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = %s + $4
		 WHERE %s = $1 AND %s >= $2 AND ($3 = 0 OR %s <= $3) AND %s <> $5`,
		s.table, s.orderCol, s.orderCol,
		s.scopeCol, s.orderCol, s.orderCol, s.memberCol)

	if _, err := s.db.Exec(ctx, query, s.scopeID, from, to, delta, exceptID); err != nil {
		return fmt.Errorf("error shifting positions: %w", err)
	}

	return nil
}

func (s *sqlSequence) SetPosition(ctx context.Context, memberID int64, pos int32) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		s.table, s.orderCol, s.scopeCol, s.memberCol)

	if _, err := s.db.Exec(ctx, query, s.scopeID, memberID, pos); err != nil {
		return fmt.Errorf("error setting position: %w", err)
	}

	return nil
}

// Resequence recomputes the scope to 1..N in a single statement, keeping the
// current relative order.
func (s *sqlSequence) Resequence(ctx context.Context) error {
	query := fmt.Sprintf(
		`UPDATE %s t
		 SET %s = rn.new_pos
		 FROM (
		     SELECT %s AS member_id,
		            ROW_NUMBER() OVER (ORDER BY %s NULLS LAST, %s)::int AS new_pos
		     FROM %s
		     WHERE %s = $1
		 ) rn
		 WHERE t.%s = $1 AND t.%s = rn.member_id
		   AND t.%s IS DISTINCT FROM rn.new_pos`,
		s.table,
		s.orderCol,
		s.memberCol, s.orderCol, s.memberCol,
		s.table, s.scopeCol,
		s.scopeCol, s.memberCol,
		s.orderCol)

	if _, err := s.db.Exec(ctx, query, s.scopeID); err != nil {
		return fmt.Errorf("error resequencing scope: %w", err)
	}

	return nil
}

// ApplyPermutation writes a validated full ordering in one bulk statement,
// bypassing the shift-based single-row path.
func (s *sqlSequence) ApplyPermutation(ctx context.Context, positions map[int64]int32) error {
	if len(positions) == 0 {
		return nil
	}

	memberIDs := make([]int64, 0, len(positions))
	newPositions := make([]int32, 0, len(positions))
	for id, pos := range positions {
		memberIDs = append(memberIDs, id)
		newPositions = append(newPositions, pos)
	}

	query := fmt.Sprintf(
		`UPDATE %s t
		 SET %s = v.pos
		 FROM (SELECT unnest($2::bigint[]) AS member_id, unnest($3::int[]) AS pos) v
		 WHERE t.%s = $1 AND t.%s = v.member_id`,
		s.table, s.orderCol, s.scopeCol, s.memberCol)

	if _, err := s.db.Exec(ctx, query, s.scopeID, memberIDs, newPositions); err != nil {
		return fmt.Errorf("error applying permutation: %w", err)
	}

	return nil
}
