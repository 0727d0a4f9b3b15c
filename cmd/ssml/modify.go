package main

import (
	"io"

	"github.com/book-expert/ssml-service/internal/ssml"
	"github.com/spf13/cobra"
)

func (a *app) newModifyCmd() *cobra.Command {
	var opts ssml.ModifyOptions

	cmd := &cobra.Command{
		Use:   "modify FILE...",
		Short: "Replace the voice or lexicon of SSML documents",
		Long: `Modify reads each SSML document in FILE (or stdin for "-"), sets the name
of its first voice element and/or replaces its lexicon, and writes the
result to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			a.log.Info("Modifying %d document(s): speaker=%q lexicon=%q", len(args), opts.Speaker, opts.LexiconURI)

			return a.processInputs(args, func(r io.Reader) (string, error) {
				return ssml.Modify(r, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Speaker, flagSpeaker, "", "Voice name to set; empty leaves it unchanged.")
	cmd.Flags().StringVar(&opts.LexiconURI, flagLexiconURI, "", "Lexicon URI to set; empty leaves any lexicon unchanged.")

	return cmd
}
