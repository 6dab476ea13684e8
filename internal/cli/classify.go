package cli

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/decoder"
	"github.com/ieee0824/wordhmm/internal/batch"
	"github.com/ieee0824/wordhmm/internal/store"
	"github.com/ieee0824/wordhmm/lexicon"
	"github.com/spf13/cobra"
)

func (c *CLI) newClassifyCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "classify [dir]",
		Short:   "Classify isolated-word observation files",
		Example: `  wordhmm classify tst --hmm hmmdefs --dict dictionary.txt`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := c.cfg.Input
			if len(args) > 0 {
				root = args[0]
			}
			files, err := batch.Find(root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no observation files under %s", root)
			}

			rec, err := c.newRecognizer(false)
			if err != nil {
				return err
			}
			outcomes, runErr := batch.Run(cmd.Context(), files, c.cfg.Workers,
				func(_ context.Context, path string) (decoder.Score, error) {
					scores, err := rec.ClassifyFile(path)
					if err != nil {
						return decoder.Score{}, err
					}
					return scores[0], nil
				})

			db, err := c.openStore()
			if err != nil {
				return err
			}
			var runID string
			if db != nil {
				defer db.Close()
				if runID, err = db.BeginRun(store.KindClassify, c.cfg.HMM, c.cfg.Dictionary); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			confusion := newMatrix(c.cfg.Classes())
			for _, o := range outcomes {
				if o.Err != nil {
					continue
				}
				expected, labeled := lexicon.FileLabel(o.Path)
				observed, known := c.cfg.ClassMap[o.Value.Word]
				if verbose {
					fmt.Fprintf(out, "%s\t%s\t%.4f\n", o.Path, o.Value.Word, o.Value.LogLikelihood)
				}
				if labeled && known && expected < len(confusion) {
					confusion[expected][observed]++
				}
				if db != nil {
					row := store.Classification{
						Path:          o.Path,
						Observed:      o.Value.Word,
						ExpectedClass: -1,
						ObservedClass: -1,
						LogScore:      o.Value.LogLikelihood,
					}
					if labeled {
						row.ExpectedClass = expected
					}
					if known {
						row.ObservedClass = observed
					}
					if err := db.RecordClassification(runID, row); err != nil {
						return err
					}
				}
			}

			printConfusion(out, confusion)
			if runID != "" {
				fmt.Fprintf(out, "run: %s\n", runID)
			}
			if runErr != nil {
				glog.Warningf("classification failed for some files: %v", runErr)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "print the best word of every file")
	return cmd
}
