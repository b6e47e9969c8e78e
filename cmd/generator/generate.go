package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var genCopy bool

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&genCopy, "copy", false, "copy generated content to clipboard")
}

var generateCmd = &cobra.Command{
	Use:   "generate [prompt...]",
	Short: "Generate content for a prompt (reads stdin when no prompt is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read prompt: %w", err)
			}
			prompt = string(data)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.ctrl.Submit(cmd.Context(), prompt)
		st := a.ctrl.State()
		if err != nil {
			return fmt.Errorf("%s", st.Notification.Message)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, rec.Content)
		fmt.Fprintf(os.Stderr, "%s (%d words)\n", st.Notification.Message, st.WordCount)

		if genCopy {
			if err := clipboard.WriteAll(rec.Content); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
			} else {
				fmt.Fprintln(os.Stderr, "Content copied to clipboard!")
			}
		}
		return nil
	},
}
