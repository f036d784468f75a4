package main

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukvdb/ukv"
	"github.com/ukvdb/ukv/strided"
)

func newSizeCmd(v *viper.Viper) *cobra.Command {
	var (
		collectionName string
		minKey, maxKey int64
	)
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Estimate cardinality and byte bounds over a key range",
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

			ests, err := db.BatchSize(context.Background(), 1,
				strided.Broadcast(col, 1), strided.Of([]int64{minKey}), strided.Of([]int64{maxKey}))
			if err != nil {
				return err
			}
			e := ests[0]

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("metric", "min", "max")
			_ = table.Append([]string{"cardinality", fmtU(e.MinCardinality), fmtU(e.MaxCardinality)})
			_ = table.Append([]string{"value bytes", fmtU(e.MinValueBytes), fmtU(e.MaxValueBytes)})
			_ = table.Append([]string{"memory bytes", fmtU(e.MinMemoryBytes), fmtU(e.MaxMemoryBytes)})
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&collectionName, "collection", "", "collection name (default collection if empty)")
	cmd.Flags().Int64Var(&minKey, "min", 0, "range lower bound (inclusive)")
	cmd.Flags().Int64Var(&maxKey, "max", 0, "range upper bound (inclusive)")
	return cmd
}
