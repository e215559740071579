// Package tabmerge converts tabular data files between CSV, TSV, TXT,
// JSON and Excel formats and merges files with SQL-style joins.
//
// All readers produce, and all writers consume, the canonical table in
// package table: an ordered header plus ordered rows of tagged scalar
// cells (string, number, or the explicit null marker). The join engine
// in package merge operates only on canonical tables, so any two
// supported formats can be joined against each other.
//
// # Quick start
//
// Convert a file and merge two files on a key column:
//
//	import (
//	    "github.com/ajitpratap0/tabmerge/pkg/format"
//	    "github.com/ajitpratap0/tabmerge/pkg/merge"
//	)
//
//	t, err := format.Read("people.csv", format.Options{})
//	if err != nil { ... }
//	if err := format.Write(t, "people.xlsx", format.Options{}); err != nil { ... }
//
//	outputs, stats, err := merge.Files("people.csv", "salaries.json", "id", "id", merge.FileOptions{
//	    Kind:   merge.LeftJoin,
//	    Format: merge.FormatCSV,
//	})
//
// # Join semantics
//
// Left, right, inner and outer joins follow standard relational
// semantics, with one output row per key match. Keys always compare by
// string lexeme: "1" and 1.0 do not match. That policy is deliberate and
// stable; numeric-looking identifiers join exactly as they appear in the
// file. Composite keys are joined with a control character separator so
// values containing commas cannot collide.
//
// Everything runs single-threaded and fully in memory; peak memory is
// proportional to the size of both inputs plus the lookup index.
package tabmerge
