// Command generate_index renders README.md into dist/index.html with a
// download table for the release archives found in dist.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const binaryName = "tabler"

var archivePattern = regexp.MustCompile(`^` + binaryName + `_(.+)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(tar\.gz|zip)$`)

var platformNames = map[string]string{
	"Darwin_arm64":   "macOS (Apple Silicon)",
	"Darwin_x86_64":  "macOS (Intel)",
	"Linux_arm64":    "Linux (ARM64)",
	"Linux_x86_64":   "Linux (x86_64)",
	"Windows_arm64":  "Windows (ARM64)",
	"Windows_x86_64": "Windows (x86_64)",
}

type archive struct {
	Version  string
	Platform string
	File     string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	distDir := os.Args[1]

	readme, err := os.ReadFile("README.md")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading README.md: %v\n", err)
		os.Exit(1)
	}
	archives, err := scanArchives(distDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", distDir, err)
		os.Exit(1)
	}

	indexPath := filepath.Join(distDir, "index.html")
	f, err := os.Create(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating index.html: %v\n", err)
		os.Exit(1)
	}
	if err := writePage(f, readme, archives); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "Error writing index.html: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing index.html: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
}

// renderMarkdown converts the README to HTML with GitHub-style heading IDs.
func renderMarkdown(src []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(p.Parse(src), r)
}

// scanArchives lists the release archives in dir, sorted by platform.
// Checksums and unrelated files are skipped.
func scanArchives(dir string) ([]archive, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []archive
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := archivePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		out = append(out, archive{Version: m[1], Platform: m[2] + "_" + m[3], File: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

func downloadsHTML(archives []archive) string {
	version := "unknown"
	if len(archives) > 0 {
		version = archives[0].Version
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<div class=\"downloads\">\n<h3>%s</h3>\n<table class=\"download-table\">\n", version)
	for _, a := range archives {
		name := platformNames[a.Platform]
		fmt.Fprintf(&sb, "<tr><td class=\"platform-name\">%s</td><td><a href=\"%s\">download</a></td></tr>\n", name, a.File)
	}
	sb.WriteString("</table>\n</div>\n")
	return sb.String()
}

// replaceInstallation swaps the body of the Installation section for the
// download table. The page is returned unchanged when the section is absent.
func replaceInstallation(page []byte, downloads string) []byte {
	s := string(page)
	const heading = `<h2 id="installation">Installation</h2>`
	start := strings.Index(s, heading)
	if start == -1 {
		return page
	}
	bodyStart := start + len(heading)
	end := len(s)
	if next := strings.Index(s[bodyStart:], "<h2 "); next != -1 {
		end = bodyStart + next
	}
	return []byte(s[:bodyStart] + "\n\n" + downloads + "\n" + s[end:])
}

func writePage(w io.Writer, readme []byte, archives []archive) error {
	body := replaceInstallation(renderMarkdown(readme), downloadsHTML(archives))
	if _, err := io.WriteString(w, pageHeader); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(w, pageFooter)
	return err
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>tabler - terminal tables for CSV, JSON and Excel</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    table { border-collapse: collapse; }
    td, th { padding: 4px 8px; border-bottom: 1px solid #e2e8f0; }
    .downloads { background: #eff6ff; padding: 12px 20px; border-radius: 8px; border-left: 4px solid #2563eb; }
  </style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
