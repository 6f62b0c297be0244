package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/viant/cbir/embedding"
	"github.com/viant/cbir/feature"
	"github.com/viant/cbir/index/bruteforce"
	"github.com/viant/cbir/internal/catalog"
	"github.com/viant/cbir/pixel"
	"github.com/viant/cbir/retrieval"
)

func (a *app) searchCmd() *cobra.Command {
	var indexFile string
	cmd := &cobra.Command{
		Use:   "search <query-image>",
		Short: "Rank the database images by similarity to a query image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheme, err := a.cfg.FeatureScheme()
			if err != nil {
				return err
			}
			var idx *bruteforce.Index
			if indexFile != "" {
				data, err := os.ReadFile(indexFile)
				if err != nil {
					return err
				}
				idx = &bruteforce.Index{}
				if err := idx.UnmarshalBinary(data); err != nil {
					return fmt.Errorf("%s: %w", indexFile, err)
				}
				scheme = idx.Scheme()
			}

			sess, err := a.session(cmd, scheme)
			if err != nil {
				return err
			}
			query, err := queryCandidate(args[0], scheme)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}

			var result *retrieval.Result
			if idx != nil {
				result, err = eng.SearchIndex(ctx, sess, idx, scheme, query, a.cfg.K)
			} else {
				result, err = a.searchDatabase(cmd, eng, sess, scheme, query)
			}
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&indexFile, "index", "", "rank against a feature index built with 'cbir index build'")
	return cmd
}

func (a *app) searchDatabase(cmd *cobra.Command, eng *retrieval.Engine, sess *retrieval.Session, scheme feature.Scheme, query retrieval.Candidate) (*retrieval.Result, error) {
	candidates, err := a.candidates(cmd, scheme)
	if err != nil {
		return nil, err
	}
	return eng.Search(cmd.Context(), sess, retrieval.Request{
		Query:      query,
		Scheme:     scheme,
		Candidates: candidates,
		K:          a.cfg.K,
	})
}

// session loads the embedding table when scheme consults it.
func (a *app) session(cmd *cobra.Command, scheme feature.Scheme) (*retrieval.Session, error) {
	var table *embedding.Table
	if scheme.NeedsEmbeddings() {
		var err error
		if table, err = a.loadEmbeddings(cmd.Context()); err != nil {
			return nil, err
		}
		a.logger.Debug("embeddings loaded", "path", a.cfg.Embeddings, "rows", table.Len(), "dim", table.Dim())
	}
	return retrieval.NewSession(table), nil
}

// candidates lists and decodes the configured database directory.
func (a *app) candidates(cmd *cobra.Command, scheme feature.Scheme) ([]retrieval.Candidate, error) {
	paths, err := catalog.List(a.cfg.Database, catalog.Pattern(a.cfg.Extensions))
	if err != nil {
		return nil, err
	}
	candidates, skipped, err := catalog.Load(cmd.Context(), paths, catalog.Options{
		SkipDecode: !scheme.NeedsPixels(),
		Workers:    a.cfg.Workers,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("database loaded", "dir", a.cfg.Database, "images", len(candidates), "unreadable", skipped)
	return candidates, nil
}

func queryCandidate(path string, scheme feature.Scheme) (retrieval.Candidate, error) {
	c := catalog.Candidate(path)
	if !scheme.NeedsPixels() {
		return c, nil
	}
	grid, err := pixel.Open(path)
	if err != nil {
		return c, err
	}
	c.Pixels = grid
	return c, nil
}

func printResult(w io.Writer, result *retrieval.Result) {
	fmt.Fprintf(w, "Top %d similar images:\n", len(result.Hits))
	for i, hit := range result.Hits {
		fmt.Fprintf(w, "%d: %s (distance: %g)\n", i+1, filepath.Base(hit.ID), hit.Score)
	}
	fmt.Fprintf(w, "Found %d images. Showing top %d.\n", result.Found, len(result.Hits))
}
