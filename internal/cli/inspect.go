package cli

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/acoustic"
	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "inspect [name...]",
		Short: "Print models in text layout or export a gob cache",
		Example: `  wordhmm inspect sil sp --hmm hmmdefs
  wordhmm inspect --hmm hmmdefs --export hmmdefs.gob`,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := acoustic.LoadFile(c.cfg.HMM)
			if err != nil {
				return err
			}

			if export != "" {
				f, err := os.Create(export)
				if err != nil {
					return err
				}
				if err := models.Save(f); err != nil {
					f.Close()
					return fmt.Errorf("export %s: %w", export, err)
				}
				glog.Infof("exported %d models to %s", models.Len(), export)
				return f.Close()
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return acoustic.WriteModelSet(out, models)
			}
			for _, name := range args {
				h, ok := models.Get(name)
				if !ok {
					return fmt.Errorf("model %q not found in %s", name, c.cfg.HMM)
				}
				if err := acoustic.WriteModel(out, h); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the parsed model set as a gob cache")
	return cmd
}
