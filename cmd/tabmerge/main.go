package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tabmerge/pkg/format"
	"github.com/ajitpratap0/tabmerge/pkg/logger"
	"github.com/ajitpratap0/tabmerge/pkg/merge"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var logLevel string

	root := &cobra.Command{
		Use:   "tabmerge",
		Short: "Tabmerge - tabular file conversion and SQL-style joins",
		Long: `Tabmerge converts tabular data files between CSV, TSV, TXT, JSON and Excel
formats and merges files with left, right, inner and outer joins on single-
or multi-column keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "console"})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(versionCmd())
	root.AddCommand(formatsCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(mergeCmd())
	root.AddCommand(mergeRefCmd())
	root.AddCommand(concatCmd())
	root.AddCommand(joinChainCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Tabmerge v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file formats",
		Run: func(cmd *cobra.Command, args []string) {
			w := tablewriter.NewWriter(os.Stdout)
			w.SetHeader([]string{"Extension", "Description"})
			for _, ext := range format.Supported() {
				w.Append([]string{"." + ext, format.Description(ext)})
			}
			w.Render()
		},
	}
}

func convertCmd() *cobra.Command {
	var delimiter, inputDelimiter string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a file from one format to another",
		Long: `Convert a tabular file between any two supported formats. The format is
selected by file extension.

Example:
  tabmerge convert input.csv output.xlsx
  tabmerge convert data.json output.tsv
  tabmerge convert notes.txt output.json --input-delimiter ';'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			readOpts, err := parseDelimiter(inputDelimiter)
			if err != nil {
				return err
			}
			writeOpts, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}

			t, err := format.Read(args[0], readOpts)
			if err != nil {
				return err
			}
			if err := format.Write(t, args[1], writeOpts); err != nil {
				return err
			}

			fmt.Printf("Converted %s -> %s (%d records)\n", args[0], args[1], t.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter for delimited output formats (default: comma for csv/txt, tab for tsv)")
	cmd.Flags().StringVar(&inputDelimiter, "input-delimiter", "", "Field delimiter for delimited input formats")
	return cmd
}

func mergeCmd() *cobra.Command {
	var outputBase, outputFormat, joinType string

	cmd := &cobra.Command{
		Use:   "merge <file1> <file2> <col1> <col2>",
		Short: "Merge two files on common column(s)",
		Long: `Merge two files with a SQL-style join. col1 and col2 name the key columns
of each file; pass comma-separated lists for multi-column keys.

Example:
  tabmerge merge people.csv salaries.csv id id
  tabmerge merge a.xlsx b.json "dept,emp" "dept,emp" -j outer -f both`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := merge.ParseJoinKind(joinType)
			if err != nil {
				return err
			}

			outputs, stats, err := merge.Files(args[0], args[1], args[2], args[3], merge.FileOptions{
				OutputBase: outputBase,
				Format:     outputFormat,
				Kind:       kind,
			})
			if err != nil {
				return err
			}

			fmt.Printf("[%s join] %d result rows (%d matched, %d unmatched left, %d unmatched right)\n",
				kind, stats.Rows, stats.Matched, stats.UnmatchedLeft, stats.UnmatchedRight)
			for _, p := range outputs {
				fmt.Printf("  wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputBase, "output", "o", "", "Base name for output files, without extension (default: merged_<file1>_<file2>)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "xlsx", "Output format: xlsx, csv, txt, or both")
	cmd.Flags().StringVarP(&joinType, "join-type", "j", "left", "Join type: left, right, inner, outer")
	return cmd
}

func mergeRefCmd() *cobra.Command {
	var dirs []string
	var refCol, inputCol, outputDir, outputFormat, pattern string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "merge-ref <reference>",
		Short: "Merge every file in one or more directories against a reference file",
		Long: `Left-join each recognized file in the given directories against a single
reference file, producing one output per input file.

Example:
  tabmerge merge-ref lookup.csv -d ./inputs -rc ID -ic ID
  tabmerge merge-ref lookup.csv -d ./jan -d ./feb -rc ID -ic ID -p '*.xlsx' -r`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputs, err := merge.WithReference(args[0], dirs, refCol, inputCol, merge.RefOptions{
				Pattern:   pattern,
				Recursive: recursive,
				OutputDir: outputDir,
				Format:    outputFormat,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Merge-to-reference complete: %d result file(s)\n", len(outputs))
			for _, p := range outputs {
				fmt.Printf("  wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&dirs, "dir", "d", nil, "Directory of input files to merge; repeatable (required)")
	cmd.Flags().StringVar(&refCol, "rc", "", "Key column(s) in the reference file, comma-separated (required)")
	cmd.Flags().StringVar(&inputCol, "ic", "", "Key column(s) in the input files, comma-separated (required)")
	cmd.Flags().StringVar(&outputFormat, "fmt", "xlsx", "Output format: xlsx, csv, txt, or both")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "merged_results", "Directory for result files")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Glob pattern filtering input file names (e.g. '*.csv')")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Search the input directory recursively")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("rc")
	_ = cmd.MarkFlagRequired("ic")
	return cmd
}

func concatCmd() *cobra.Command {
	var unique bool

	cmd := &cobra.Command{
		Use:   "concat <output> <inputs...>",
		Short: "Concatenate files vertically into one output",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				n   int
				err error
			)
			if unique {
				n, err = merge.Union(args[1:], args[0])
			} else {
				n, err = merge.Concat(args[1:], args[0])
			}
			if err != nil {
				return err
			}

			fmt.Printf("Wrote %d rows from %d files -> %s\n", n, len(args)-1, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&unique, "unique", false, "Drop duplicate rows, keeping first occurrences")
	return cmd
}

func joinChainCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "join-chain <output> <inputs...>",
		Short: "Left-join a sequence of files on one shared key column",
		Long: `Left-join files left to right on a key column every file carries under
the same name: the first file joins with the second, that result with the
third, and so on.

Example:
  tabmerge join-chain combined.xlsx people.csv salaries.csv bonuses.json -k id`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := merge.Chain(args[1:], key, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Joined %d files on %q -> %s (%d rows)\n", len(args)-1, key, args[0], n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Key column shared by every file; comma-separated for multi-column (required)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

// parseDelimiter validates a delimiter flag; delimited formats take a
// single character
func parseDelimiter(s string) (format.Options, error) {
	switch {
	case s == "":
		return format.Options{}, nil
	case s == "\\t":
		return format.Options{Delimiter: '\t'}, nil
	case len([]rune(s)) == 1:
		return format.Options{Delimiter: []rune(s)[0]}, nil
	}
	return format.Options{}, fmt.Errorf("delimiter must be a single character, got %q", s)
}
