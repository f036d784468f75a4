package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukvdb/ukv"
	"github.com/ukvdb/ukv/strided"
)

func newWriteCmd(v *viper.Viper) *cobra.Command {
	var (
		collectionName string
		key            int64
		value          string
		deleteKey      bool
		flush          bool
	)
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write (or delete) a single key",
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

			var val []byte
			if !deleteKey {
				val = []byte(value)
			}

			ctx := context.Background()
			err = db.BatchWrite(ctx, nil, 1,
				strided.Broadcast(col, 1),
				strided.Of([]int64{key}),
				strided.Of([][]byte{val}),
				flush,
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote key %d\n", key)
			return nil
		},
	}
	cmd.Flags().StringVar(&collectionName, "collection", "", "collection name (default collection if empty)")
	cmd.Flags().Int64Var(&key, "key", 0, "key to write")
	cmd.Flags().StringVar(&value, "value", "", "value to write")
	cmd.Flags().BoolVar(&deleteKey, "delete", false, "delete the key instead of writing value")
	cmd.Flags().BoolVar(&flush, "flush", true, "request durable persistence before returning")
	return cmd
}
