package table

import (
	"reflect"
	"testing"
)

func TestAppendOrderedColumnOrder(t *testing.T) {
	tbl := New()
	tbl.AppendOrdered([]string{"a", "b"}, Row{"a": String("1"), "b": String("2")})
	tbl.AppendOrdered([]string{"b", "c"}, Row{"b": String("3"), "c": String("4")})

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Errorf("columns = %v, want %v", tbl.Columns, want)
	}

	// The first row gained the later column as an explicit null.
	if v, ok := tbl.Rows[0]["c"]; !ok || !v.IsNull() {
		t.Errorf("row 0 column c = %v (present=%v), want explicit null", v, ok)
	}
}

func TestAppendFillsMissingWithNull(t *testing.T) {
	tbl := New("x", "y")
	tbl.Append(Row{"x": String("1")})

	if got := tbl.Get(0, "y"); !got.IsNull() {
		t.Errorf("missing cell = %v, want null", got)
	}
	if _, ok := tbl.Rows[0]["y"]; !ok {
		t.Error("missing cell must be stored explicitly, not omitted")
	}
}

func TestGetOutOfHeader(t *testing.T) {
	tbl := New("x")
	tbl.Append(Row{"x": String("1")})

	if got := tbl.Get(0, "nope"); !got.IsNull() {
		t.Errorf("unknown column = %v, want null", got)
	}
}
