package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ieee0824/wordhmm/internal/store"
	"github.com/spf13/cobra"
)

func (c *CLI) newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "report <run-id>",
		Short:   "Summarize a stored run",
		Example: `  wordhmm report 0b5c... --db results.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openStore()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("no results database configured")
			}
			defer db.Close()

			runID := args[0]
			kind, err := db.RunKind(runID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch kind {
			case store.KindClassify:
				m, err := db.Confusion(runID, c.cfg.Classes())
				if err != nil {
					return err
				}
				printConfusion(out, m)
			case store.KindDecode:
				rate, n, err := db.WordErrorRate(runID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "WER: %.2f%% (%d utterances)\n", 100*rate, n)
			default:
				return fmt.Errorf("run %s has unknown kind %q", runID, kind)
			}
			return nil
		},
	}
}

func newMatrix(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

// printConfusion writes m, indexed [expected][observed], followed by the
// accuracy over its total.
func printConfusion(w io.Writer, m [][]int) {
	fmt.Fprintf(w, "%6s", "")
	for j := range m {
		fmt.Fprintf(w, "%5d", j)
	}
	fmt.Fprintln(w)

	correct, total := 0, 0
	for i, row := range m {
		fmt.Fprintf(w, "%6d", i)
		for j, v := range row {
			fmt.Fprintf(w, "%5d", v)
			total += v
			if i == j {
				correct += v
			}
		}
		fmt.Fprintln(w)
	}
	if total == 0 {
		fmt.Fprintln(w, "accuracy: n/a (no labeled files)")
		return
	}
	fmt.Fprintf(w, "accuracy: %.2f%% (%d/%d)\n", 100*float64(correct)/float64(total), correct, total)
}
