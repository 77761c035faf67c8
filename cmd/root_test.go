package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/oakwood-commons/tabler/pkg/loader"
)

const peopleCSV = "name,age,city\nAlice,30,Paris\nBob,25,Oslo\nCara,41,Lima\n"

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func resetRootCmdState() {
	resetFlags(rootCmd.PersistentFlags())
	resetFlags(rootCmd.Flags())
	for _, c := range rootCmd.Commands() {
		resetFlags(c.Flags())
	}
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
}

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	resetRootCmdState()
	t.Cleanup(resetRootCmdState)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeWorkbookFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	_, err := f.NewSheet("Totals")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"k"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"v"}))
	require.NoError(t, f.SetSheetRow("Totals", "A1", &[]any{"region", "sum"}))
	require.NoError(t, f.SetSheetRow("Totals", "A2", &[]any{"north", 10}))
	require.NoError(t, f.SetSheetRow("Totals", "A3", &[]any{"south", 20}))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCLI_TableRendersAllRows(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "--no-color")
	require.NoError(t, res.err)

	for _, want := range []string{"name", "age", "city", "Alice", "Bob", "Cara", "Lima"} {
		assert.Contains(t, res.stdout, want)
	}
	assert.NotContains(t, res.stdout, "\x1b[")
	assert.Empty(t, res.stderr)
}

func TestCLI_WrapsLongCells(t *testing.T) {
	long := strings.Repeat("a", 20) + strings.Repeat("b", 16)
	path := writeFixture(t, "long.csv", "id,note\n1,"+long+"\n")
	res := runCLI(t, path, "--no-color", "--indent")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, strings.Repeat("a", 20)+"-")
	assert.Contains(t, res.stdout, strings.Repeat("b", 16)+"-")
	assert.NotContains(t, res.stdout, long)
}

func TestCLI_IndentDependsOnColumns(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)

	res := runCLI(t, path, "--no-color")
	require.NoError(t, res.err)
	first := strings.SplitN(res.stdout, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(first, strings.Repeat(" ", 65)+"┌"), "got %q", first)

	res = runCLI(t, path, "--no-color", "--indent")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "┌"), "got %q", res.stdout)
}

func TestCLI_RowCap(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "-r", "1", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "name,age,city\nAlice,30,Paris\n", res.stdout)
}

func TestCLI_RowCapLargerThanTable(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "--rows", "500", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, peopleCSV, res.stdout)
	assert.Contains(t, res.stderr, "only 3 rows are available")
}

func TestCLI_RowCapCountsRowsAfterOffset(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "--offset", "1", "--rows", "500", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "name,age,city\nBob,25,Oslo\nCara,41,Lima\n", res.stdout)
	assert.Equal(t, "only 2 rows are available\n", res.stderr)

	res = runCLI(t, path, "--offset", "1", "--rows", "2", "-o", "csv")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)
}

func TestCLI_OffsetAndTail(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)

	res := runCLI(t, path, "--offset", "1", "-r", "1", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "name,age,city\nBob,25,Oslo\n", res.stdout)

	res = runCLI(t, path, "--tail", "1", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "name,age,city\nCara,41,Lima\n", res.stdout)
}

func TestCLI_ColumnsFlagReportsUnknown(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "-c", "city,nmae,name", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "city,name\nParis,Alice\nOslo,Bob\nLima,Cara\n", res.stdout)
	assert.Equal(t, "unknown columns: [nmae]\n", res.stderr)
}

func TestCLI_ColumnsSubcommand(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, "columns", path, "age", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "age\n30\n25\n41\n", res.stdout)

	res = runCLI(t, "columns", path)
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestCLI_ColumnsNoneMatchKeepsAll(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, "columns", path, "x", "y", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, peopleCSV, res.stdout)
	assert.Equal(t, "unknown columns: [x y]\n", res.stderr)
}

func TestCLI_Filter(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "-f", `int(row.age) > 28`, "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "name,age,city\nAlice,30,Paris\nCara,41,Lima\n", res.stdout)

	res = runCLI(t, path, "-f", `row.age`)
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestCLI_TreeFileFlattened(t *testing.T) {
	path := writeFixture(t, "doc.json", `{"a":{"b":1},"c":"x"}`)
	res := runCLI(t, path, "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "a.b,c\n1,NaN\nNaN,x\n", res.stdout)

	res = runCLI(t, path, "-o", "json")
	require.NoError(t, res.err)
	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	assert.Equal(t, []map[string]string{{"a.b": "1"}, {"c": "x"}}, decoded)
}

func TestCLI_Nested(t *testing.T) {
	path := writeFixture(t, "doc.json", `{"server":{"port":8080,"tags":["a","b"]}}`)
	res := runCLI(t, path, "--nested")
	require.NoError(t, res.err)
	for _, want := range []string{"server", "port", "8080", "[0]", `"a"`} {
		assert.Contains(t, res.stdout, want)
	}

	csvPath := writeFixture(t, "people.csv", peopleCSV)
	res = runCLI(t, csvPath, "-n")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestCLI_WorkbookSheet(t *testing.T) {
	path := writeWorkbookFixture(t)

	res := runCLI(t, path, "-s", "Totals", "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "region,sum\nnorth,10\nsouth,20\n", res.stdout)

	res = runCLI(t, path, "-o", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "k\nv\n", res.stdout)

	res = runCLI(t, path, "-s", "Nope")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, loader.ErrSheetNotFound))
	assert.Equal(t, 1, ExitCode(res.err))
}

func TestCLI_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, filepath.Join(dir, "missing.csv"))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, loader.ErrFileNotFound))
	assert.Equal(t, 1, ExitCode(res.err))
	assert.Empty(t, res.stdout)

	res = runCLI(t, writeFixture(t, "notes.txt", "hello"))
	assert.True(t, errors.Is(res.err, loader.ErrUnsupportedExtension))

	res = runCLI(t, writeFixture(t, "empty.csv", "a,b\n"))
	assert.True(t, errors.Is(res.err, loader.ErrEmptyFile))
}

func TestCLI_UsageErrors(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	tests := []struct {
		name string
		args []string
	}{
		{name: "rows and default rows", args: []string{path, "-r", "5", "-d"}},
		{name: "sheet and nested", args: []string{path, "-s", "A", "-n"}},
		{name: "rows below one", args: []string{path, "-r", "0"}},
		{name: "tail with rows", args: []string{path, "--tail", "2", "-r", "5"}},
		{name: "tail with default rows", args: []string{path, "--tail", "2", "-d"}},
		{name: "negative offset", args: []string{path, "--offset", "-1"}},
		{name: "bad output", args: []string{path, "-o", "xml"}},
		{name: "unknown flag", args: []string{path, "--bogus"}},
		{name: "no path", args: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, exitUsage, ExitCode(res.err), "err: %v", res.err)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestCLI_DefaultRowsUsesConfig(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	cfgPath := writeFixture(t, "config.yaml", "rows:\n  default_cap: 2\n")

	res := runCLI(t, path, "-d", "-o", "csv", "--config-file", cfgPath)
	require.NoError(t, res.err)
	assert.Equal(t, "name,age,city\nAlice,30,Paris\nBob,25,Oslo\n", res.stdout)
}

func TestCLI_ConfigSentinel(t *testing.T) {
	path := writeFixture(t, "doc.json", `{"a":1,"b":[2,3]}`)
	cfgPath := writeFixture(t, "config.toml", "[render]\nsentinel = \"-\"\n")

	res := runCLI(t, path, "-o", "csv", "--config-file", cfgPath)
	require.NoError(t, res.err)
	assert.Equal(t, "a,b\n1,-\n-,2\n-,3\n", res.stdout)
}

func TestCLI_BadConfigFile(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	cfgPath := writeFixture(t, "config.yaml", "rows:\n  default_cap: 0\n")

	res := runCLI(t, path, "--config-file", cfgPath)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "default_cap")
}

func TestCLI_TUIRequiresTerminal(t *testing.T) {
	path := writeFixture(t, "people.csv", peopleCSV)
	res := runCLI(t, path, "--tui")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "terminal")
}

func TestCLI_Version(t *testing.T) {
	res := runCLI(t, "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "tabler "), "got %q", res.stdout)
	assert.Contains(t, res.stdout, "oakwood-commons")
}

func TestCLI_Config(t *testing.T) {
	res := runCLI(t, "config")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "default_cap: 200")
	assert.Contains(t, res.stdout, "default_sheet: Sheet1")

	res = runCLI(t, "config", "--format", "toml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "default_cap = 200")

	res = runCLI(t, "config", "--format", "ini")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, exitUsage, ExitCode(usageErrorf("bad %s", "flag")))
}
