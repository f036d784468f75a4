package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukvdb/ukv"
	"github.com/ukvdb/ukv/arena"
	"github.com/ukvdb/ukv/strided"
)

func newReadCmd(v *viper.Viper) *cobra.Command {
	var (
		collectionName string
		key            int64
	)
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a single key",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(v)
			if err != nil {
				return err
			}
			defer db.Close()

			col := ukv.DefaultCollection
			if collectionName != "" {
				col = db.CollectionOpen(collectionName, nil)
			}

			a := arena.Acquire()
			defer arena.Release(a)

			tape, err := db.BatchRead(context.Background(), nil, a, 1,
				strided.Broadcast(col, 1), strided.Of([]int64{key}), false)
			if err != nil {
				return err
			}
			val, found := tape.Value(0)
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "missing")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", val)
			return nil
		},
	}
	cmd.Flags().StringVar(&collectionName, "collection", "", "collection name (default collection if empty)")
	cmd.Flags().Int64Var(&key, "key", 0, "key to read")
	return cmd
}
