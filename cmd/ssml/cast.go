package main

import (
	"fmt"
	"io"

	"github.com/book-expert/ssml-service/internal/ssml"
	"github.com/spf13/cobra"
)

// Cast flag names.
const (
	flagIndent          = "indent"
	flagLexiconURI      = "lexicon-uri"
	flagSpeaker         = "speaker"
	flagLeadingSilence  = "leading-silence"
	flagTrailingSilence = "trailing-silence"
	flagPattern         = "pattern"
	flagNormalize       = "normalize"
)

// castFlags holds the parsed cast flag values.
type castFlags struct {
	indent          bool
	lexiconURI      string
	speaker         string
	leadingSilence  string
	trailingSilence string
	pattern         string
	normalize       bool
}

func (a *app) newCastCmd() *cobra.Command {
	var flags castFlags

	cmd := &cobra.Command{
		Use:   "cast FILE...",
		Short: "Cast text files into SSML documents",
		Long: `Cast reads each FILE (or stdin for "-"), splits it into sentences and
writes one SSML document per input to stdout, each on its own line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCast(cmd, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.indent, flagIndent, false, "Indent SSML tree for pretty-printing.")
	cmd.Flags().StringVar(&flags.lexiconURI, flagLexiconURI, "", "URI to a custom lexicon.")
	cmd.Flags().StringVar(&flags.speaker, flagSpeaker, ssml.DefaultSpeaker, "Azure AI voice to use.")
	cmd.Flags().StringVar(&flags.leadingSilence, flagLeadingSilence, ssml.DefaultLeadingSilence,
		"Leading silence duration; empty to omit.")
	cmd.Flags().StringVar(&flags.trailingSilence, flagTrailingSilence, ssml.DefaultTrailingSilence,
		"Trailing silence duration; empty to omit.")
	cmd.Flags().StringVar(&flags.pattern, flagPattern, ssml.DefaultSentencePattern,
		"Sentence regular expression with exactly one capture group.")
	cmd.Flags().BoolVar(&flags.normalize, flagNormalize, false,
		"Expand abbreviations and tidy whitespace before splitting sentences.")

	return cmd
}

func (a *app) runCast(cmd *cobra.Command, flags castFlags, args []string) error {
	opts, normalize, err := a.castOptions(cmd, flags)
	if err != nil {
		a.log.Error("Invalid cast options: %v", err)

		return err
	}

	caster := a.caster(normalize)

	a.log.Info("Casting %d input(s) with voice %s", len(args), opts.Speaker)

	if segmenter, ok := opts.Segmenter.(*ssml.RegexSegmenter); ok {
		a.log.Info("Sentence pattern: %s", segmenter.Pattern())
	}

	return a.processInputs(args, func(r io.Reader) (string, error) {
		data, readErr := io.ReadAll(r)
		if readErr != nil {
			return "", fmt.Errorf("failed to read input: %w", readErr)
		}

		return caster.Cast(string(data), opts)
	})
}

// castOptions layers explicitly set flags over the [ssml] configuration and
// validates the result once.
func (a *app) castOptions(cmd *cobra.Command, flags castFlags) (ssml.Options, bool, error) {
	section := a.cfg.SSML
	changed := cmd.Flags().Changed

	if changed(flagSpeaker) {
		section.Speaker = flags.speaker
	}

	if changed(flagLeadingSilence) {
		section.LeadingSilence = flags.leadingSilence
	}

	if changed(flagTrailingSilence) {
		section.TrailingSilence = flags.trailingSilence
	}

	if changed(flagLexiconURI) {
		section.LexiconURI = flags.lexiconURI
	}

	if changed(flagPattern) {
		section.SentencePattern = flags.pattern
	}

	if changed(flagIndent) {
		section.Indent = flags.indent
	}

	if changed(flagNormalize) {
		section.Normalize = flags.normalize
	}

	layered := *a.cfg
	layered.SSML = section

	opts, err := layered.CastOptions()
	if err != nil {
		return opts, false, err
	}

	return opts, section.Normalize, nil
}
