package cmd

import (
	"fmt"
	"path/filepath"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tabler/internal/config"
	"github.com/oakwood-commons/tabler/internal/formatter"
	"github.com/oakwood-commons/tabler/internal/layout"
	"github.com/oakwood-commons/tabler/internal/ui"
	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// writeOutput emits data in the selected output format, or hands it to the
// interactive browser.
func writeOutput(cmd *cobra.Command, data tabular.Data, lay layout.Layout, cfg config.Config, path string) error {
	format, err := formatter.ParseFormat(output)
	if err != nil {
		return usageErrorf("%v", err)
	}
	out := cmd.OutOrStdout()

	if interactive {
		if !isTerminal(out) {
			return fmt.Errorf("--tui requires a terminal on stdout")
		}
		return ui.RunBrowser(data, browserOptions(cfg, path, !colorEnabled(out)))
	}

	if format != formatter.FormatTable {
		return formatter.Encode(out, data, format, cfg.Render.Sentinel)
	}
	rendered := formatter.RenderTable(data, lay, tableOptions(cfg, !colorEnabled(out)))
	if rendered == "" {
		return nil
	}
	_, err = lipgloss.Fprintln(out, rendered)
	return err
}

func tableOptions(cfg config.Config, plain bool) formatter.TableOptions {
	theme := cfg.Render.Theme
	return formatter.TableOptions{
		Sentinel: cfg.Render.Sentinel,
		Wrap:     cfg.Render.Wrap,
		NoColor:  plain,
		Colors:   formatter.ColorsFromStrings(theme.Header, theme.Border, theme.Cell),
	}
}

func browserOptions(cfg config.Config, path string, plain bool) ui.BrowserOptions {
	w, h := detectTerminalSize()
	return ui.BrowserOptions{
		Title:    filepath.Base(path),
		Sentinel: cfg.Render.Sentinel,
		NoColor:  plain,
		HeaderFG: tableOptions(cfg, plain).Colors.Header,
		Width:    w,
		Height:   h,
	}
}
