package format

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

// delimiterFor returns the field separator for a delimited extension,
// honoring an explicit override
func delimiterFor(ext string, override rune) rune {
	if override != 0 {
		return override
	}
	if ext == TSV {
		return '\t'
	}
	return ','
}

// readDelimited parses a csv/tsv/txt file. The first record is the
// header; short records are filled with Null, extra fields are dropped.
func readDelimited(path string, delim rune) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "open "+path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return table.New(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "parse "+path)
	}

	t := table.New(header...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "parse "+path)
		}

		row := make(table.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = table.Coerce(record[i])
			}
		}
		t.Append(row)
	}
	return t, nil
}

// writeDelimited serializes a table as delimited text. Null cells are
// written as empty fields.
func writeDelimited(t *table.Table, path string, delim rune) error {
	f, err := os.Create(path)
	if err != nil {
		return wrapCreateErr(err, path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = delim

	if err := w.Write(t.Columns); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "write "+path)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col].String()
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write "+path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "flush "+path)
	}
	return nil
}
