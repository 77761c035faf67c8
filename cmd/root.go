package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tabler/internal/config"
	"github.com/oakwood-commons/tabler/internal/filter"
	"github.com/oakwood-commons/tabler/internal/formatter"
	"github.com/oakwood-commons/tabler/internal/layout"
	"github.com/oakwood-commons/tabler/internal/limiter"
	"github.com/oakwood-commons/tabler/pkg/loader"
	"github.com/oakwood-commons/tabler/pkg/logger"
	"github.com/oakwood-commons/tabler/pkg/settings"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

var (
	rowCap        int
	defaultRows   bool
	flattenIndent bool
	sheetName     string
	nested        bool
	columnNames   []string
	filterExpr    string
	offsetRows    int
	tailRows      int
	output        string
	interactive   bool
	noColor       bool
	debug         bool
	configFile    string

	rootCtx = context.Background()
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [flags] PATH",
	Short: settings.CliBinaryName + " - " + settings.About,
	Long: settings.About + `

Supported inputs are .csv files (first line is the header), .json documents
(nested values are flattened into dotted columns such as a.b.c) and .xlsx/.xls
workbooks (first row of the sheet is the header).`,
	Example:       "\n  tabler people.csv\n  tabler people.csv -r 10 -c name,age\n  tabler report.xlsx -s Totals\n  tabler config.json -n\n  tabler people.csv -f 'row.age == \"30\"' -o json\n",
	Args:          usageArgs(cobra.ExactArgs(1)),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Map CLI debug flag to log level: debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
		var level int8
		if debug {
			level = logger.DebugLevel
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

		run := settings.NewCliParams()
		run.MinLogLevel = level
		run.NoColor = noColor
		run.ConfigFile = config.ResolvePath(configFile)
		run.Interactive = isTerminal(cmd.OutOrStdout())

		ctx := logger.WithLogger(context.Background(), lgr)
		rootCtx = settings.IntoContext(ctx, run)
		cmd.SetContext(rootCtx)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFlags(cmd); err != nil {
			return err
		}
		return runTable(cmd, args[0], columnNames)
	},
}

// validateFlags checks the flag combinations cobra cannot express on its own.
func validateFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("rows") && flags.Changed("default-rows") {
		return usageErrorf("--rows and --default-rows are mutually exclusive")
	}
	if flags.Changed("sheet") && flags.Changed("nested") {
		return usageErrorf("--sheet and --nested are mutually exclusive")
	}
	if defaultRows && tailRows > 0 {
		return usageErrorf("row caps and --tail are mutually exclusive")
	}
	if flags.Changed("rows") && rowCap < 1 {
		return usageErrorf("--rows must be at least 1, got %d", rowCap)
	}
	if _, err := formatter.ParseFormat(output); err != nil {
		return usageErrorf("%v", err)
	}
	if interactive && flags.Changed("output") && output != string(formatter.FormatTable) {
		return usageErrorf("--tui cannot be combined with --output %s", output)
	}
	if err := limitConfig().Validate(); err != nil {
		return usageErrorf("%v", err)
	}
	return nil
}

func limitConfig() limiter.Config {
	return limiter.Config{Limit: rowCap, Offset: offsetRows, Tail: tailRows}
}

// runTable loads path and renders it according to the root flags. The
// columns subcommand shares it with its positional column names.
func runTable(cmd *cobra.Command, path string, columns []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = rootCtx
	}
	lgr := logger.FromContext(ctx)

	cfg, err := loadRunConfig(ctx)
	if err != nil {
		return err
	}

	src, err := loader.Detect(path)
	if err != nil {
		return err
	}
	if nested {
		return printTree(cmd, src)
	}
	if sheetName != "" && src.Family != tabular.Range {
		lgr.V(1).Info("ignoring --sheet for non-workbook input", logger.SheetKey, sheetName)
	}
	if src.Family == tabular.Range && cfg.Workbook.DefaultSheet != "" {
		src.Sheet = cfg.Workbook.DefaultSheet
	}

	data, err := loader.Load(ctx, src, loader.Options{Sheet: sheetName})
	if err != nil {
		return err
	}

	if filterExpr != "" {
		data, err = applyFilter(ctx, data, filterExpr)
		if err != nil {
			return err
		}
	}

	data, unknown := data.Select(columns)
	if len(unknown) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "unknown columns: %v\n", unknown)
	}

	window := limitConfig()
	lay := layout.Compute(len(data.Columns), window.Available(data.Len()), layout.Preferences{
		DefaultRowCap: defaultRows,
		RowCap:        rowCap,
		FlattenIndent: flattenIndent,
	}, cfg.LayoutConfig())
	for _, n := range lay.Notices {
		fmt.Fprintln(cmd.ErrOrStderr(), n)
	}
	lgr.V(1).Info("computed layout", "indent", lay.Indent, "capped", lay.Capped, "rowLimit", lay.RowLimit)

	window = window.WithLayout(lay)
	data = data.WithRows(window.Apply(data.Rows))
	lgr.V(1).Info("rendering", logger.ColumnsKey, len(data.Columns), logger.RowsKey, data.Len())

	return writeOutput(cmd, data, lay, cfg, path)
}

func applyFilter(ctx context.Context, data tabular.Data, expr string) (tabular.Data, error) {
	env, err := filter.New()
	if err != nil {
		return data, err
	}
	pred, err := env.Compile(expr)
	if err != nil {
		return data, usageErrorf("invalid --filter: %v", err)
	}
	res := pred.Apply(data)
	logger.FromContext(ctx).V(1).Info("filtered rows", "filter", pred.String(), "kept", len(res.Rows), "total", data.Len())
	if res.Errored > 0 {
		logger.FromContext(ctx).V(1).Info("filter dropped rows that failed to evaluate",
			"count", res.Errored, "error", res.FirstErr.Error())
	}
	return data.WithRows(res.Rows), nil
}

func printTree(cmd *cobra.Command, src loader.Source) error {
	if src.Family != tabular.Tree {
		return usageErrorf("--nested requires a .json file, got %q", src.Path)
	}
	v, err := loader.LoadTreeValue(src.Path)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree(v, formatter.TreeOptions{}))
	return nil
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().IntVarP(&rowCap, "rows", "r", 0, "show at most N rows (N >= 1)")
	rootCmd.PersistentFlags().BoolVarP(&defaultRows, "default-rows", "d", false, "cap the table at the configured default row count (200)")
	rootCmd.PersistentFlags().BoolVarP(&flattenIndent, "indent", "i", false, "flatten the table indentation to 0")
	rootCmd.PersistentFlags().StringVarP(&sheetName, "sheet", "s", "", "workbook sheet to read (default Sheet1, see workbook.default_sheet)")
	rootCmd.PersistentFlags().BoolVarP(&nested, "nested", "n", false, "print a .json file as a tree instead of a table")
	rootCmd.Flags().StringSliceVarP(&columnNames, "columns", "c", nil, "columns to display, in order (comma separated)")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "CEL predicate over 'row' (map of column to text), e.g. 'row.city == \"Paris\"'")
	rootCmd.PersistentFlags().IntVar(&offsetRows, "offset", 0, "skip the first N rows")
	rootCmd.PersistentFlags().IntVar(&tailRows, "tail", 0, "show the last N rows (mutually exclusive with row caps)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", string(formatter.FormatTable), "output format: table|csv|json|yaml")
	rootCmd.PersistentFlags().BoolVarP(&interactive, "tui", "t", false, "browse the table interactively")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML or TOML config file")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: exitUsage, err: err}
	})
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodeOf(err); ok {
		return code
	}
	return 1
}
