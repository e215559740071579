package merge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/format"
	"github.com/ajitpratap0/tabmerge/pkg/logger"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

// Output format choices for merge results
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatBoth = "both"
)

// ParseOutputFormat validates a merge output format argument
func ParseOutputFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case FormatXLSX, FormatCSV, FormatTXT, FormatBoth:
		return strings.ToLower(s), nil
	}
	return "", errors.Newf(errors.ErrorTypeValidation,
		"output format must be one of: xlsx, csv, txt, both (got %q)", s)
}

// FileOptions configures a two-file merge
type FileOptions struct {
	// OutputBase is the output name without extension; derived from the
	// input file stems when empty
	OutputBase string
	// Format is xlsx (default), csv, txt, or both
	Format string
	// Kind is the join type, left by default
	Kind JoinKind
}

// stem returns the file name without directory or extension
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// splitKeys turns a comma-separated key column argument into a list
func splitKeys(arg string) []string {
	parts := strings.Split(arg, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Files merges two files on the given key columns and writes the result
// in the requested format(s). col1 and col2 accept comma-separated lists
// for composite keys. Returns the written output paths and join stats.
func Files(file1, file2, col1, col2 string, opts FileOptions) ([]string, *Stats, error) {
	kind := opts.Kind
	if kind == "" {
		kind = LeftJoin
	}
	outFormat := opts.Format
	if outFormat == "" {
		outFormat = FormatXLSX
	}
	if _, err := ParseOutputFormat(outFormat); err != nil {
		return nil, nil, err
	}

	log := logger.Get()

	log.Debug("reading input", zap.String("file", file1))
	left, err := format.Read(file1, format.Options{})
	if err != nil {
		return nil, nil, err
	}

	log.Debug("reading input", zap.String("file", file2))
	right, err := format.Read(file2, format.Options{})
	if err != nil {
		return nil, nil, err
	}

	result, stats, err := Join(left, right, splitKeys(col1), splitKeys(col2), kind)
	if err != nil {
		return nil, nil, err
	}

	base := opts.OutputBase
	if base == "" {
		base = "merged_" + stem(file1) + "_" + stem(file2)
	}

	outputs, err := writeResult(result, base, outFormat)
	if err != nil {
		return nil, nil, err
	}

	log.Info("merge complete",
		zap.String("join", string(kind)),
		zap.Int("left_rows", left.Len()),
		zap.Int("right_rows", right.Len()),
		zap.Int("result_rows", stats.Rows),
		zap.Strings("outputs", outputs))

	return outputs, stats, nil
}

// writeResult serializes a merge result to one or more files. "both"
// writes csv, tab-delimited txt, and xlsx.
func writeResult(t *table.Table, base, outFormat string) ([]string, error) {
	var outputs []string

	if outFormat == FormatCSV || outFormat == FormatBoth {
		path := base + ".csv"
		if err := format.Write(t, path, format.Options{}); err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}
	if outFormat == FormatTXT || outFormat == FormatBoth {
		path := base + ".txt"
		if err := format.Write(t, path, format.Options{Delimiter: '\t'}); err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}
	if outFormat == FormatXLSX || outFormat == FormatBoth {
		path := base + ".xlsx"
		if err := format.Write(t, path, format.Options{}); err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}
	return outputs, nil
}

// RefOptions configures a batch merge against a reference file
type RefOptions struct {
	// Pattern filters input file names (shell glob); all recognized files
	// when empty
	Pattern string
	// Recursive walks subdirectories of the input directory
	Recursive bool
	// OutputDir receives one result per input file; merged_results by
	// default
	OutputDir string
	// Format is xlsx (default), csv, txt, or both
	Format string
}

// WithReference merges every recognized file in the given directories
// against a single reference file, one output per input, always as a left
// join with the input file on the left. Per-file failures are logged and
// skipped so one bad input does not abort the batch.
func WithReference(reference string, dirs []string, refCol, inputCol string, opts RefOptions) ([]string, error) {
	if _, err := os.Stat(reference); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "reference file not found: %s", reference)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "stat "+reference)
	}
	if len(dirs) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "no input directories provided")
	}

	var inputs []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		found, err := listInputs(dir, opts.Pattern, opts.Recursive)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			abs, _ := filepath.Abs(f)
			if seen[abs] {
				continue
			}
			seen[abs] = true
			inputs = append(inputs, f)
		}
	}
	sort.Strings(inputs)
	if len(inputs) == 0 {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "no recognized files found in %s", strings.Join(dirs, ", "))
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "merged_results"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypePermission, "create output directory "+outDir)
	}

	log := logger.Get()
	absRef, _ := filepath.Abs(reference)

	var outputs []string
	for _, input := range inputs {
		if abs, _ := filepath.Abs(input); abs == absRef {
			continue
		}

		fileOpts := FileOptions{
			OutputBase: filepath.Join(outDir, stem(input)+"_merged"),
			Format:     opts.Format,
			Kind:       LeftJoin,
		}
		files, _, err := Files(input, reference, inputCol, refCol, fileOpts)
		if err != nil {
			log.Warn("skipping input",
				zap.String("file", input),
				zap.Error(err))
			continue
		}
		outputs = append(outputs, files...)
	}
	return outputs, nil
}

// listInputs collects recognized files in dir, optionally filtered by a
// glob pattern on the file name and optionally walking subdirectories
func listInputs(dir, pattern string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "directory not found: %s", dir)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "stat "+dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrorTypeValidation, "not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := format.Detect(path); err != nil {
			return nil
		}
		if pattern != "" {
			ok, err := filepath.Match(pattern, d.Name())
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeValidation, "bad file pattern "+pattern)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "walk "+dir)
	}

	sort.Strings(files)
	return files, nil
}

// Chain left-joins a sequence of files on one shared key column, folding
// left to right: the first file joins with the second, that result with
// the third, and so on. key accepts a comma-separated list for composite
// keys; every file must carry the key column(s) under the same name(s).
// Returns the number of rows written.
func Chain(paths []string, key, out string) (int, error) {
	if len(paths) < 2 {
		return 0, errors.New(errors.ErrorTypeValidation, "at least 2 input files needed for a chained join")
	}
	keys := splitKeys(key)
	if len(keys) == 1 && keys[0] == "" {
		return 0, errors.New(errors.ErrorTypeValidation, "no join key column provided")
	}

	log := logger.Get()

	result, err := format.Read(paths[0], format.Options{})
	if err != nil {
		return 0, err
	}
	for _, path := range paths[1:] {
		log.Debug("joining", zap.String("file", path), zap.Strings("keys", keys))
		next, err := format.Read(path, format.Options{})
		if err != nil {
			return 0, err
		}
		result, _, err = Join(result, next, keys, keys, LeftJoin)
		if err != nil {
			return 0, err
		}
	}

	if err := format.Write(result, out, format.Options{}); err != nil {
		return 0, err
	}

	log.Info("chained join complete",
		zap.Int("files", len(paths)),
		zap.Int("result_rows", result.Len()),
		zap.String("output", out))
	return result.Len(), nil
}

// Concat reads every input and appends their rows into one output file,
// extending the header with each file's unseen columns. Returns the total
// number of rows written.
func Concat(paths []string, out string) (int, error) {
	return concat(paths, out, false)
}

// Union is Concat with whole-row deduplication
func Union(paths []string, out string) (int, error) {
	return concat(paths, out, true)
}

func concat(paths []string, out string, unique bool) (int, error) {
	if len(paths) == 0 {
		return 0, errors.New(errors.ErrorTypeValidation, "no input files provided")
	}

	combined := table.New()
	for _, path := range paths {
		t, err := format.Read(path, format.Options{})
		if err != nil {
			return 0, err
		}
		for _, row := range t.Rows {
			combined.AppendOrdered(t.Columns, row)
		}
	}

	if unique {
		combined = dedupe(combined)
	}

	if err := format.Write(combined, out, format.Options{}); err != nil {
		return 0, err
	}
	return combined.Len(), nil
}

// dedupe drops repeated rows, keeping first occurrences. The fingerprint
// covers every column and distinguishes null from empty string.
func dedupe(t *table.Table) *table.Table {
	out := table.New(t.Columns...)
	seen := make(map[string]bool, t.Len())

	var sb strings.Builder
	for _, row := range t.Rows {
		sb.Reset()
		for _, c := range t.Columns {
			v := row[c]
			if v.IsNull() {
				sb.WriteByte(0)
			} else {
				sb.WriteByte(1)
				sb.WriteString(v.String())
			}
			sb.WriteString(keySeparator)
		}
		fp := sb.String()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out.Append(row)
	}
	return out
}
