package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukvdb/ukv/control"
)

func newControlCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "control [clear|reset|compact|info|usage|stats]",
		Short:     "Send a control-channel command to the open store",
		ValidArgs: []string{control.Clear, control.Reset, control.Compact, control.Info, control.Usage, control.Stats},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(v)
			if err != nil {
				return err
			}
			defer db.Close()

			request := strings.ToLower(args[0])
			resp, err := db.Control(context.Background(), request)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	return cmd
}
