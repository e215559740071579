// Package format converts between supported file formats and the
// canonical table representation. The format is always selected by file
// extension.
package format

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

// Recognized file extensions
const (
	CSV  = "csv"
	TSV  = "tsv"
	TXT  = "txt"
	JSON = "json"
	XLSX = "xlsx"
	XLS  = "xls"
)

var descriptions = map[string]string{
	CSV:  "Comma Separated Values",
	TSV:  "Tab Separated Values",
	TXT:  "Text File",
	JSON: "JSON",
	XLSX: "Microsoft Excel",
	XLS:  "Microsoft Excel (Legacy)",
}

// Options tunes reading and writing of delimited text formats. The zero
// value uses the per-extension defaults: comma for csv and txt, tab for
// tsv.
type Options struct {
	// Delimiter overrides the field separator for csv, tsv and txt
	Delimiter rune
}

// Supported returns the recognized extensions in sorted order
func Supported() []string {
	exts := make([]string, 0, len(descriptions))
	for ext := range descriptions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Description returns the human-readable name of a recognized extension
func Description(ext string) string {
	return descriptions[ext]
}

// IsSupported reports whether ext is a recognized extension
func IsSupported(ext string) bool {
	_, ok := descriptions[ext]
	return ok
}

// Detect returns the recognized extension of path, lowercased and without
// the leading dot
func Detect(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !IsSupported(ext) {
		return "", errors.Newf(errors.ErrorTypeUnsupportedFormat,
			"unsupported format %q, supported: %s", ext, strings.Join(Supported(), ", "))
	}
	return ext, nil
}

// Read parses path into a canonical table. Fails with a not_found error
// when the path does not exist, unsupported_format for an unrecognized
// extension, and empty_file when the file parses to zero data rows.
func Read(path string, opts Options) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "file not found: %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "stat "+path)
	}

	ext, err := Detect(path)
	if err != nil {
		return nil, err
	}

	var t *table.Table
	switch ext {
	case CSV, TSV, TXT:
		t, err = readDelimited(path, delimiterFor(ext, opts.Delimiter))
	case JSON:
		t, err = readJSON(path)
	case XLSX:
		t, err = readXLSX(path)
	case XLS:
		t, err = readXLS(path)
	}
	if err != nil {
		return nil, err
	}

	if t.Len() == 0 {
		return nil, errors.Newf(errors.ErrorTypeEmptyFile, "no data rows in %s", path)
	}
	return t, nil
}

// Write serializes a table to path in the format selected by its
// extension
func Write(t *table.Table, path string, opts Options) error {
	ext, err := Detect(path)
	if err != nil {
		return err
	}

	switch ext {
	case CSV, TSV, TXT:
		return writeDelimited(t, path, delimiterFor(ext, opts.Delimiter))
	case JSON:
		return writeJSON(t, path)
	case XLSX, XLS:
		// Legacy .xls outputs are written as OOXML workbooks under the
		// requested name; Excel opens them with a format warning.
		return writeExcel(t, path)
	}
	return nil
}

// wrapCreateErr maps output-path failures onto the permission error kind
// when appropriate
func wrapCreateErr(err error, path string) error {
	if os.IsPermission(err) {
		return errors.Wrap(err, errors.ErrorTypePermission, "output path not writable: "+path)
	}
	return errors.Wrap(err, errors.ErrorTypeFile, "create "+path)
}
