package format

import (
	"bytes"
	"os"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

// readJSON parses a JSON file holding an array of objects, or a single
// object treated as a one-row table. Decoding walks tokens so that column
// order matches key order in the document; numbers keep their lexeme via
// UseNumber.
func readJSON(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "open "+path)
	}
	defer f.Close()

	dec := gojson.NewDecoder(f)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "parse "+path)
	}

	delim, ok := tok.(gojson.Delim)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeFile, "JSON in %s must contain an object or an array of objects", path)
	}

	t := table.New()
	switch delim {
	case '{':
		keys, row, err := decodeObjectBody(dec)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "parse "+path)
		}
		t.AppendOrdered(keys, row)
	case '[':
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeFile, "parse "+path)
			}
			if d, ok := tok.(gojson.Delim); !ok || d != '{' {
				return nil, errors.Newf(errors.ErrorTypeFile, "JSON array in %s must contain objects", path)
			}
			keys, row, err := decodeObjectBody(dec)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeFile, "parse "+path)
			}
			t.AppendOrdered(keys, row)
		}
	default:
		return nil, errors.Newf(errors.ErrorTypeFile, "JSON in %s must contain an object or an array of objects", path)
	}
	return t, nil
}

// decodeObjectBody reads key/value pairs up to the closing brace, which
// the caller has already entered. Returns keys in document order.
func decodeObjectBody(dec *gojson.Decoder) ([]string, table.Row, error) {
	var keys []string
	row := table.Row{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)

		val, err := decodeValue(dec)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		row[key] = val
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, nil, err
	}
	return keys, row, nil
}

// decodeValue reads one JSON value. Scalars map directly onto cell
// values; nested arrays and objects are flattened to their JSON text.
func decodeValue(dec *gojson.Decoder) (table.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return table.Null, err
	}
	if d, ok := tok.(gojson.Delim); ok {
		v, err := consumeComposite(dec, d)
		if err != nil {
			return table.Null, err
		}
		return table.String(v), nil
	}
	return table.FromAny(tok), nil
}

// consumeComposite rebuilds a nested array or object from tokens and
// returns its compact JSON text
func consumeComposite(dec *gojson.Decoder, open gojson.Delim) (string, error) {
	var build func(open gojson.Delim) (interface{}, error)
	build = func(open gojson.Delim) (interface{}, error) {
		if open == '{' {
			m := map[string]interface{}{}
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				vtok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := vtok.(gojson.Delim); ok {
					nested, err := build(d)
					if err != nil {
						return nil, err
					}
					m[ktok.(string)] = nested
				} else {
					m[ktok.(string)] = vtok
				}
			}
			_, err := dec.Token()
			return m, err
		}

		arr := []interface{}{}
		for dec.More() {
			vtok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if d, ok := vtok.(gojson.Delim); ok {
				nested, err := build(d)
				if err != nil {
					return nil, err
				}
				arr = append(arr, nested)
			} else {
				arr = append(arr, vtok)
			}
		}
		_, err := dec.Token()
		return arr, err
	}

	v, err := build(open)
	if err != nil {
		return "", err
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// orderedRow marshals a row as a JSON object with keys in header order
type orderedRow struct {
	cols []string
	row  table.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := gojson.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := gojson.Marshal(o.row[col])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON serializes a table as an indented array of objects. Null
// cells encode as JSON null.
func writeJSON(t *table.Table, path string) error {
	rows := make([]orderedRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = orderedRow{cols: t.Columns, row: row}
	}

	b, err := gojson.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "encode "+path)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return wrapCreateErr(err, path)
	}
	return nil
}
