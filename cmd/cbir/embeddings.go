package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/cbir/embedding"
)

func (a *app) embeddingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embeddings",
		Short: "Manage the SQLite embedding store",
	}
	var dbPath string
	cmd.PersistentFlags().StringVar(&dbPath, "db", "data/embeddings.sqlite", "SQLite embedding store")

	var csvPath string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV embedding table into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if csvPath == "" {
				csvPath = a.cfg.Embeddings
			}
			table, err := embedding.LoadCSV(csvPath)
			if err != nil {
				return err
			}
			store, closeFn, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := store.Save(cmd.Context(), table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d embeddings (dim %d) into %s.\n", table.Len(), table.Dim(), dbPath)
			return nil
		},
	}
	importCmd.Flags().StringVar(&csvPath, "csv", "", "CSV embedding table (defaults to --embeddings)")

	nearest := &cobra.Command{
		Use:   "nearest <image-id>",
		Short: "List the stored images closest to one image by embedding cosine distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer closeFn()
			table, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			id := args[0]
			query, ok := table.Lookup(id)
			if !ok {
				return fmt.Errorf("%s: no embedding stored for %q", dbPath, id)
			}
			matches, err := store.Nearest(cmd.Context(), query, a.cfg.K, id)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Top %d similar images:\n", len(matches))
			for i, m := range matches {
				fmt.Fprintf(w, "%d: %s (distance: %g)\n", i+1, m.ID, m.Distance)
			}
			return nil
		},
	}

	cmd.AddCommand(importCmd, nearest)
	return cmd
}
