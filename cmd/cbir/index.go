package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/cbir/index/bruteforce"
)

func (a *app) indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage persisted feature indexes",
	}
	var out string
	build := &cobra.Command{
		Use:   "build",
		Short: "Extract the database directory into a feature index file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheme, err := a.cfg.FeatureScheme()
			if err != nil {
				return err
			}
			sess, err := a.session(cmd, scheme)
			if err != nil {
				return err
			}
			candidates, err := a.candidates(cmd, scheme)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			idx := bruteforce.New(scheme)
			skipped, err := eng.BuildIndex(cmd.Context(), sess, scheme, candidates, idx)
			if err != nil {
				return err
			}
			data, err := idx.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d images with %s into %s (%d skipped).\n", idx.Len(), scheme, out, skipped)
			return nil
		},
	}
	build.Flags().StringVar(&out, "out", "cbir.idx", "index file to write")
	cmd.AddCommand(build)
	return cmd
}
