// Package merge implements the join engine and the file-level merge
// operations built on it.
package merge

import (
	"strings"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

// JoinKind selects the join semantics
type JoinKind string

const (
	// LeftJoin keeps every left row, null-filling unmatched right columns
	LeftJoin JoinKind = "left"
	// RightJoin keeps every right row; equivalent to a left join with the
	// sides swapped
	RightJoin JoinKind = "right"
	// InnerJoin keeps only matched rows
	InnerJoin JoinKind = "inner"
	// OuterJoin keeps every row from both sides
	OuterJoin JoinKind = "outer"
)

// ParseJoinKind validates a join type argument
func ParseJoinKind(s string) (JoinKind, error) {
	switch JoinKind(strings.ToLower(s)) {
	case LeftJoin:
		return LeftJoin, nil
	case RightJoin:
		return RightJoin, nil
	case InnerJoin:
		return InnerJoin, nil
	case OuterJoin:
		return OuterJoin, nil
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "join type must be one of: left, right, inner, outer (got %q)", s)
}

// collisionSuffix is appended to right-side non-key columns whose name
// already exists on the left, repeatedly until the name is free. The
// scheme is deterministic, so repeated runs over identical input produce
// identical headers.
const collisionSuffix = "_right"

// keySeparator joins the per-column lexemes of a composite key. A control
// character keeps ("a,b","c") distinct from ("a","b,c").
const keySeparator = "\x1f"

// Stats describes a join result
type Stats struct {
	Rows           int // output rows
	Matched        int // driving-side rows with at least one match
	UnmatchedLeft  int // left rows with no match
	UnmatchedRight int // right rows whose key never appeared on the left
}

// compositeKey concatenates the stringified key cells of a row. Each
// cell carries a kind prefix so a null key never matches an empty-string
// key. Comparison is always by lexeme: numeric-looking keys compare as
// text, so "1" and 1.0 do not match. That policy is deliberate; changing
// it would silently alter which rows match.
func compositeKey(row table.Row, keys []string) string {
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(keySeparator)
		}
		v := row[k]
		if v.IsNull() {
			sb.WriteByte(0)
			continue
		}
		sb.WriteByte(1)
		sb.WriteString(v.String())
	}
	return sb.String()
}

// validateKeys checks the key column lists before any row processing
func validateKeys(left, right *table.Table, leftKeys, rightKeys []string) error {
	if len(leftKeys) == 0 || len(leftKeys) != len(rightKeys) {
		return errors.Newf(errors.ErrorTypeValidation,
			"key column lists must be non-empty and of equal length (%d vs %d)", len(leftKeys), len(rightKeys))
	}
	for _, k := range leftKeys {
		if !left.HasColumn(k) {
			return errors.Newf(errors.ErrorTypeColumnNotFound, "column %q not found in left table", k).
				WithDetail("column", k).
				WithDetail("side", "left")
		}
	}
	for _, k := range rightKeys {
		if !right.HasColumn(k) {
			return errors.Newf(errors.ErrorTypeColumnNotFound, "column %q not found in right table", k).
				WithDetail("column", k).
				WithDetail("side", "right")
		}
	}
	return nil
}

// Join merges two tables on positionally paired key columns. The output
// header is the left columns followed by the right non-key columns, with
// colliding right names suffixed.
func Join(left, right *table.Table, leftKeys, rightKeys []string, kind JoinKind) (*table.Table, *Stats, error) {
	if kind == RightJoin {
		// A right join is a left join with the sides swapped; only which
		// table's columns come first differs.
		out, stats, err := Join(right, left, rightKeys, leftKeys, LeftJoin)
		if err != nil {
			return nil, nil, err
		}
		stats.UnmatchedLeft, stats.UnmatchedRight = stats.UnmatchedRight, stats.UnmatchedLeft
		return out, stats, nil
	}

	switch kind {
	case LeftJoin, InnerJoin, OuterJoin:
	default:
		return nil, nil, errors.Newf(errors.ErrorTypeValidation, "unknown join type %q", kind)
	}

	if err := validateKeys(left, right, leftKeys, rightKeys); err != nil {
		return nil, nil, err
	}

	rightKeySet := make(map[string]bool, len(rightKeys))
	for _, k := range rightKeys {
		rightKeySet[k] = true
	}

	// Right non-key columns carried into the output, renamed on collision
	// with the left header.
	var rightCols []string
	rename := make(map[string]string)
	out := table.New(append([]string(nil), left.Columns...)...)
	for _, c := range right.Columns {
		if rightKeySet[c] {
			continue
		}
		name := c
		for out.HasColumn(name) {
			name += collisionSuffix
		}
		rightCols = append(rightCols, c)
		rename[c] = name
		out.AddColumn(name)
	}

	// Hash join: composite right key -> all right row indices with that
	// key, so a key appearing in multiple right rows yields one output row
	// per match.
	index := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		k := compositeKey(row, rightKeys)
		index[k] = append(index[k], i)
	}

	stats := &Stats{}
	rightMatched := make([]bool, right.Len())

	for _, lrow := range left.Rows {
		matches := index[compositeKey(lrow, leftKeys)]
		if len(matches) == 0 {
			stats.UnmatchedLeft++
			if kind == InnerJoin {
				continue
			}
			row := lrow.Clone()
			for _, c := range rightCols {
				row[rename[c]] = table.Null
			}
			out.Append(row)
			continue
		}

		stats.Matched++
		for _, ri := range matches {
			rightMatched[ri] = true
			row := lrow.Clone()
			for _, c := range rightCols {
				row[rename[c]] = right.Rows[ri][c]
			}
			out.Append(row)
		}
	}

	for i, matched := range rightMatched {
		if matched {
			continue
		}
		stats.UnmatchedRight++
		if kind != OuterJoin {
			continue
		}
		// Right-only row: left key columns take the paired right key
		// values, left non-key columns are null-filled.
		rrow := right.Rows[i]
		row := make(table.Row, len(out.Columns))
		for j, k := range leftKeys {
			row[k] = rrow[rightKeys[j]]
		}
		for _, c := range rightCols {
			row[rename[c]] = rrow[c]
		}
		out.Append(row)
	}

	stats.Rows = out.Len()
	return out, stats, nil
}
