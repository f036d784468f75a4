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

func newScanCmd(v *viper.Viper) *cobra.Command {
	var (
		collectionName string
		minKey         int64
		length         int
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan ascending keys from a minimum",
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

			_, tape, err := db.BatchScan(context.Background(), nil, a, 1,
				strided.Broadcast(col, 1), strided.Of([]int64{minKey}), strided.Of([]int{length}), false)
			if err != nil {
				return err
			}
			for _, k := range tape.Keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&collectionName, "collection", "", "collection name (default collection if empty)")
	cmd.Flags().Int64Var(&minKey, "min", 0, "minimum key (inclusive)")
	cmd.Flags().IntVar(&length, "length", 10, "maximum number of keys to return")
	return cmd
}
