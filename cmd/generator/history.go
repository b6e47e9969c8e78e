package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/yoshii001/Content-Generator/internal/format"
	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/session"
)

var (
	histFormat   string
	histNoHeader bool
	exportOut    string
	exportCopy   bool
)

func init() {
	rootCmd.AddCommand(historyCmd, deleteCmd, exportCmd, templatesCmd)

	historyCmd.Flags().StringVar(&histFormat, "format", "table", "output format: "+strings.Join(format.Formats, ", "))
	historyCmd.Flags().BoolVar(&histNoHeader, "no-header", false, "omit the header row")

	exportCmd.Flags().StringVar(&exportOut, "out", history.ExportFilename, "file to write the content to")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "copy the content to clipboard instead of writing a file")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved generations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		return format.WriteHistory(cmd.OutOrStdout(), a.ctrl.History(), histFormat, format.Options{
			Header: !histNoHeader,
			Width:  format.TerminalWidth(os.Stdout),
		})
	},
}

// parseIndex maps the 1-based number shown by `history` to a log index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid entry number %q: use the # column of `history`", arg)
	}
	return n - 1, nil
}

var deleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete history entry n",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.ctrl.Delete(idx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.MsgHistoryDeleted)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <n>",
	Short: "Write the content of history entry n to a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.store.Get(idx)
		if err != nil {
			return err
		}
		data := history.Export(rec)

		if exportCopy {
			if err := clipboard.WriteAll(string(data)); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Content copied to clipboard!")
			return nil
		}

		outPath := exportOut
		if !filepath.IsAbs(outPath) {
			dir, _ := os.Getwd()
			outPath = filepath.Join(dir, outPath)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Content written to %s\n", outPath)
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the content templates",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range session.Templates() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", t.Name, t.Description)
		}
	},
}
