package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/decoder"
	"github.com/ieee0824/wordhmm/internal/batch"
	"github.com/ieee0824/wordhmm/internal/store"
	"github.com/ieee0824/wordhmm/lexicon"
	"github.com/spf13/cobra"
)

func (c *CLI) newDecodeCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "decode [dir|file]",
		Short:   "Recognize connected words in observation files",
		Example: `  wordhmm decode tst/44z5938a.txt --bigram bigram.txt --verbose`,
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

			rec, err := c.newRecognizer(true)
			if err != nil {
				return err
			}
			outcomes, runErr := batch.Run(cmd.Context(), files, c.cfg.Workers,
				func(_ context.Context, path string) (*decoder.Result, error) {
					return rec.RecognizeFile(path)
				})

			db, err := c.openStore()
			if err != nil {
				return err
			}
			var runID string
			if db != nil {
				defer db.Close()
				if runID, err = db.BeginRun(store.KindDecode, c.cfg.HMM, c.cfg.Dictionary); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			var wordErrors, refWords, scored int
			for _, o := range outcomes {
				if o.Err != nil {
					continue
				}
				hyp := o.Value.WordTexts()
				row := store.Decoding{Path: o.Path, Hypothesis: strings.Join(hyp, " "), LogScore: o.Value.LogScore}
				ref, hasRef := lexicon.DigitReference(o.Path)
				if hasRef {
					row.Reference = strings.Join(ref, " ")
					row.WordErrors = lexicon.WordEditDistance(ref, hyp)
					row.RefWords = len(ref)
					wordErrors += row.WordErrors
					refWords += row.RefWords
					scored++
					fmt.Fprintf(out, "%s\t%s\tWER %.2f%%\n", o.Path, row.Hypothesis, 100*lexicon.WordErrorRate(ref, hyp))
				} else {
					fmt.Fprintf(out, "%s\t%s\n", o.Path, row.Hypothesis)
				}
				if verbose {
					for _, w := range o.Value.Words {
						fmt.Fprintf(out, "\t%-8s %5d %5d %12.4f\n", w.Text, w.StartFrame, w.EndFrame, w.LogScore)
					}
					fmt.Fprintf(out, "\tword ends: %s\n", strings.Join(o.Value.WordEnds, " "))
				}
				if db != nil {
					if err := db.RecordDecode(runID, row); err != nil {
						return err
					}
				}
			}

			if refWords > 0 {
				fmt.Fprintf(out, "WER: %.2f%% (%d errors / %d words, %d utterances)\n",
					100*float64(wordErrors)/float64(refWords), wordErrors, refWords, scored)
			}
			if runID != "" {
				fmt.Fprintf(out, "run: %s\n", runID)
			}
			if runErr != nil {
				glog.Warningf("decoding failed for some files: %v", runErr)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "print word boundaries and scores")
	return cmd
}
