package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukvdb/ukv/control"
)

func newShellCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive control-channel shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(v)
			if err != nil {
				return err
			}
			defer db.Close()

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)
			line.SetCompleter(controlCompleter)

			ctx := context.Background()
			for {
				input, err := line.Prompt("ukv> ")
				if err == liner.ErrPromptAborted || err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				if input == "exit" || input == "quit" {
					return nil
				}
				line.AppendHistory(input)

				resp, err := db.Control(ctx, input)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp)
			}
		},
	}
}

// controlCompleter offers the fixed control vocabulary as tab-completions.
func controlCompleter(prefix string) []string {
	verbs := []string{control.Clear, control.Reset, control.Compact, control.Info, control.Usage, control.Stats}
	var out []string
	for _, v := range verbs {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
