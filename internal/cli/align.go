package cli

import (
	"errors"
	"fmt"

	"github.com/ieee0824/wordhmm/lexicon"
	"github.com/spf13/cobra"
)

func (c *CLI) newAlignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "align <file> [word...]",
		Short: "Force-align an observation file against a transcript",
		Long: `Force-align an observation file against a transcript.
Without words, the transcript is read from a digit-string file name.`,
		Example: `  wordhmm align tst/44z5938a.txt
  wordhmm align utt.txt one two three`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, transcript := args[0], args[1:]
			if len(transcript) == 0 {
				ref, ok := lexicon.DigitReference(path)
				if !ok {
					return errors.New("no transcript given and none encoded in the file name")
				}
				transcript = ref
			}

			rec, err := c.newRecognizer(false)
			if err != nil {
				return err
			}
			words, err := rec.AlignFile(path, transcript)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range words {
				fmt.Fprintf(out, "%-8s %5d %5d %12.4f\n", w.Text, w.StartFrame, w.EndFrame, w.LogScore)
			}
			return nil
		},
	}
}
