// Package format renders the history log for terminals, chats and scripts.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/yoshii001/Content-Generator/internal/history"
)

const (
	dateLayout     = "2006-01-02 15:04"
	defaultWidth   = 80
	minPreviewCols = 20
)

// Formats lists the accepted values of WriteHistory's format argument.
var Formats = []string{"table", "plain", "json", "jsonl"}

// Options tunes WriteHistory. Width bounds the content preview column; zero
// means no terminal, so previews fall back to a fixed length.
type Options struct {
	Header bool
	Width  int
}

// WriteHistory writes the log to w. Entries are numbered from 1 in display
// order, which is the same order DeleteAt/Get index into (minus one).
func WriteHistory(w io.Writer, records history.Log, format string, opts Options) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeTable(w, records, opts)
	case "plain":
		return writePlain(w, records, opts)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = history.Log{}
		}
		return enc.Encode(records)
	case "jsonl":
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writePlain(w io.Writer, records history.Log, opts Options) error {
	if opts.Header {
		if _, err := fmt.Fprintln(w, "#\tdate\ttitle\twords\tpreview"); err != nil {
			return err
		}
	}
	width := previewWidth(opts.Width)
	for i, rec := range records {
		line := fmt.Sprintf("%d\t%s\t%s\t%d\t%s",
			i+1,
			rec.Date.UTC().Format(time.RFC3339),
			escapeNewlines(rec.Title),
			len(strings.Fields(rec.Content)),
			Preview(rec.Content, width),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, records history.Log, opts Options) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Format.Header = text.FormatDefault

	width := previewWidth(opts.Width)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: width},
	})

	if opts.Header {
		tw.AppendHeader(table.Row{"#", "Date (UTC)", "Prompt", "Words", "Content"})
	}
	for i, rec := range records {
		tw.AppendRow(table.Row{
			i + 1,
			rec.Date.UTC().Format(dateLayout),
			escapeNewlines(rec.Title),
			len(strings.Fields(rec.Content)),
			Preview(rec.Content, width),
		})
	}
	if len(records) == 0 {
		tw.AppendRow(table.Row{"-", "-", "(no history)", 0, "-"})
	}

	_ = tw.Render()
	return nil
}

// previewWidth leaves room for the fixed columns of the table.
func previewWidth(termWidth int) int {
	if termWidth <= 0 {
		return 60
	}
	w := termWidth - 80
	if w < minPreviewCols {
		return minPreviewCols
	}
	return w
}

// Preview flattens s onto one line and cuts it to at most n runes.
func Preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the column count of f, then $COLUMNS, then 80.
// It returns 0 when f is not a terminal, so piped output is not wrapped.
func TerminalWidth(f *os.File) int {
	if !IsTerminal(f) {
		return 0
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil && v > 0 {
			return v
		}
	}
	return defaultWidth
}
