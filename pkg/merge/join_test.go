package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

func people() *table.Table {
	t := table.New("id", "name")
	t.Append(table.Row{"id": table.Coerce("1"), "name": table.String("Alice")})
	t.Append(table.Row{"id": table.Coerce("2"), "name": table.String("Bob")})
	t.Append(table.Row{"id": table.Coerce("3"), "name": table.String("Carol")})
	return t
}

func salaries() *table.Table {
	t := table.New("id", "salary")
	t.Append(table.Row{"id": table.Coerce("1"), "salary": table.Coerce("50000")})
	t.Append(table.Row{"id": table.Coerce("2"), "salary": table.Coerce("60000")})
	return t
}

func TestLeftJoin(t *testing.T) {
	out, stats, err := Join(people(), salaries(), []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"id", "name", "salary"}, out.Columns)
	assert.Equal(t, "50000", out.Get(0, "salary").String())
	assert.Equal(t, "60000", out.Get(1, "salary").String())
	assert.True(t, out.Get(2, "salary").IsNull(), "unmatched row must be null-filled")

	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 1, stats.UnmatchedLeft)
	assert.Equal(t, 0, stats.UnmatchedRight)
}

func TestInnerJoin(t *testing.T) {
	out, _, err := Join(people(), salaries(), []string{"id"}, []string{"id"}, InnerJoin)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "Alice", out.Get(0, "name").String())
	assert.Equal(t, "Bob", out.Get(1, "name").String())
}

func TestOuterJoinNoRightOnly(t *testing.T) {
	// B's ids are a subset of A's, so outer equals left here.
	out, _, err := Join(people(), salaries(), []string{"id"}, []string{"id"}, OuterJoin)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
}

func TestOuterJoinRightOnlyRows(t *testing.T) {
	right := salaries()
	right.Append(table.Row{"id": table.Coerce("9"), "salary": table.Coerce("70000")})

	out, stats, err := Join(people(), right, []string{"id"}, []string{"id"}, OuterJoin)
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())

	last := out.Rows[3]
	assert.Equal(t, "9", last["id"].String(), "right key value carries into the paired left key column")
	assert.True(t, last["name"].IsNull(), "left non-key columns are null-filled")
	assert.Equal(t, "70000", last["salary"].String())
	assert.Equal(t, 1, stats.UnmatchedRight)
}

func TestRightJoinEqualsSwappedLeftJoin(t *testing.T) {
	a, b := people(), salaries()

	rightOut, _, err := Join(a, b, []string{"id"}, []string{"id"}, RightJoin)
	require.NoError(t, err)

	leftOut, _, err := Join(b, a, []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)

	// Identical up to which table's columns come first.
	require.Equal(t, leftOut.Columns, rightOut.Columns)
	require.Equal(t, leftOut.Len(), rightOut.Len())
	for i := range leftOut.Rows {
		for _, c := range leftOut.Columns {
			assert.True(t, leftOut.Get(i, c).Equal(rightOut.Get(i, c)),
				"row %d column %s differs", i, c)
		}
	}
}

func TestJoinMultiplicity(t *testing.T) {
	right := table.New("id", "phone")
	right.Append(table.Row{"id": table.Coerce("1"), "phone": table.String("x100")})
	right.Append(table.Row{"id": table.Coerce("1"), "phone": table.String("x200")})

	out, _, err := Join(people(), right, []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)

	// One output row per match plus the two unmatched left rows.
	require.Equal(t, 4, out.Len())
	assert.Equal(t, "x100", out.Get(0, "phone").String())
	assert.Equal(t, "x200", out.Get(1, "phone").String())
}

func TestJoinCountOrdering(t *testing.T) {
	right := salaries()
	right.Append(table.Row{"id": table.Coerce("9"), "salary": table.Coerce("70000")})

	inner, _, err := Join(people(), right, []string{"id"}, []string{"id"}, InnerJoin)
	require.NoError(t, err)
	left, _, err := Join(people(), right, []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)
	outer, _, err := Join(people(), right, []string{"id"}, []string{"id"}, OuterJoin)
	require.NoError(t, err)

	assert.LessOrEqual(t, inner.Len(), left.Len())
	assert.LessOrEqual(t, left.Len(), outer.Len())
	assert.GreaterOrEqual(t, left.Len(), people().Len())
}

func TestCompositeKeySeparatorDiscipline(t *testing.T) {
	left := table.New("dept", "emp")
	left.Append(table.Row{"dept": table.String("A,B"), "emp": table.String("C")})

	right := table.New("dept", "emp", "floor")
	right.Append(table.Row{"dept": table.String("A"), "emp": table.String("B,C"), "floor": table.Coerce("3")})

	out, stats, err := Join(left, right, []string{"dept", "emp"}, []string{"dept", "emp"}, InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len(), `("A,B","C") must not match ("A","B,C")`)
	assert.Equal(t, 0, stats.Matched)
}

func TestMultiColumnKeyMatch(t *testing.T) {
	left := table.New("dept", "emp", "title")
	left.Append(table.Row{"dept": table.String("eng"), "emp": table.Coerce("7"), "title": table.String("dev")})

	right := table.New("d", "e", "floor")
	right.Append(table.Row{"d": table.String("eng"), "e": table.Coerce("7"), "floor": table.Coerce("3")})

	out, _, err := Join(left, right, []string{"dept", "emp"}, []string{"d", "e"}, InnerJoin)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "3", out.Get(0, "floor").String())
}

func TestKeysCompareAsText(t *testing.T) {
	left := table.New("id")
	left.Append(table.Row{"id": table.String("1")})

	right := table.New("id", "v")
	right.Append(table.Row{"id": table.Number("1.0", 1.0), "v": table.String("x")})

	out, _, err := Join(left, right, []string{"id"}, []string{"id"}, InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len(), `"1" and 1.0 must not match`)
}

func TestColumnCollisionSuffix(t *testing.T) {
	left := table.New("id", "name")
	left.Append(table.Row{"id": table.Coerce("1"), "name": table.String("left")})

	right := table.New("id", "name")
	right.Append(table.Row{"id": table.Coerce("1"), "name": table.String("right")})

	out, _, err := Join(left, right, []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)

	require.Equal(t, []string{"id", "name", "name_right"}, out.Columns)
	assert.Equal(t, "left", out.Get(0, "name").String())
	assert.Equal(t, "right", out.Get(0, "name_right").String())

	// Same inputs, same header: the scheme is deterministic.
	again, _, err := Join(left, right, []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)
	assert.Equal(t, out.Columns, again.Columns)
}

func TestColumnCollisionSuffixCascades(t *testing.T) {
	left := table.New("id", "name", "name_right")
	left.Append(table.Row{"id": table.Coerce("1"), "name": table.String("a"), "name_right": table.String("b")})

	right := table.New("id", "name")
	right.Append(table.Row{"id": table.Coerce("1"), "name": table.String("c")})

	out, _, err := Join(left, right, []string{"id"}, []string{"id"}, LeftJoin)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "name_right", "name_right_right"}, out.Columns)
}

func TestJoinColumnNotFound(t *testing.T) {
	_, _, err := Join(people(), salaries(), []string{"nope"}, []string{"id"}, LeftJoin)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))

	_, _, err = Join(people(), salaries(), []string{"id"}, []string{"nope"}, LeftJoin)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestJoinColumnNotFoundCarriesDetails(t *testing.T) {
	_, _, err := Join(people(), salaries(), []string{"id"}, []string{"nope"}, LeftJoin)
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "nope", e.Details["column"])
	assert.Equal(t, "right", e.Details["side"])
}

func TestNullKeyDistinctFromEmptyKey(t *testing.T) {
	left := table.New()
	left.AppendOrdered([]string{"k", "v"}, table.Row{"k": table.Null, "v": table.String("null-key")})
	left.AppendOrdered([]string{"k", "v"}, table.Row{"k": table.String(""), "v": table.String("empty-key")})

	right := table.New()
	right.AppendOrdered([]string{"k", "w"}, table.Row{"k": table.String(""), "w": table.String("empty-side")})

	out, stats, err := Join(left, right, []string{"k"}, []string{"k"}, LeftJoin)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	// Only the empty-string key matches; the null key does not.
	assert.True(t, out.Get(0, "w").IsNull())
	assert.Equal(t, "empty-side", out.Get(1, "w").String())
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 1, stats.UnmatchedLeft)
}

func TestJoinKeyLengthMismatch(t *testing.T) {
	_, _, err := Join(people(), salaries(), []string{"id", "name"}, []string{"id"}, LeftJoin)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestParseJoinKind(t *testing.T) {
	for _, s := range []string{"left", "RIGHT", "Inner", "outer"} {
		_, err := ParseJoinKind(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseJoinKind("cross")
	assert.Error(t, err)
}
