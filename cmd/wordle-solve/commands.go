package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

type rankFlags struct {
	lang       string
	length     int
	guesses    []string
	limit      int
	candidates int
	all        bool
	noProgress bool
}

func newRankCmd() *cobra.Command {
	var f rankFlags
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the next guesses for a history of word=PATTERN constraints",
		Long: `Filters the dictionary down to the words consistent with every --guess
and ranks candidates by the expected information of their feedback.

Patterns use G (correct), Y (present) and X (absent), e.g. crane=XGGYG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.lang, "lang", words.DefaultLanguage, "dictionary language")
	fl.IntVar(&f.length, "len", 5, "word length")
	fl.StringArrayVarP(&f.guesses, "guess", "g", nil, "a played guess as word=PATTERN (repeatable, in order)")
	fl.IntVar(&f.limit, "limit", 10, "suggestions to print (0 = all)")
	fl.IntVar(&f.candidates, "candidates", 200, "domain words to score (0 = all)")
	fl.BoolVar(&f.all, "all", false, "score every dictionary word, not only consistent ones")
	fl.BoolVar(&f.noProgress, "no-progress", false, "hide the progress bar")
	return cmd
}

func runRank(cmd *cobra.Command, f rankFlags) error {
	history, err := parseGuesses(f.guesses)
	if err != nil {
		return err
	}
	dict, err := library().Dictionary(f.lang, f.length)
	if err != nil {
		return err
	}

	sv, err := solver.New(dict.Words(),
		solver.WithLength(dict.Length),
		solver.WithPreferred(dict.Popular()),
		solver.WithLogger(log.Logger),
	)
	if err != nil {
		return err
	}
	if err := sv.Replay(history); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d candidate(s) remain\n", sv.Len())
	if sv.Len() == 0 {
		return nil
	}

	candidates := sv.Domain()
	if f.all {
		candidates = dict.Words()
	}
	if f.candidates > 0 && len(candidates) > f.candidates {
		candidates = candidates[:f.candidates]
	}

	var opts []solver.RankOption
	if !f.noProgress {
		bar := progressbar.NewOptions(len(candidates),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("scoring"),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		opts = append(opts, solver.WithProgress(func() { _ = bar.Add(1) }))
	}

	ranked, err := sv.Rank(cmd.Context(), candidates, f.limit, opts...)
	if err != nil {
		return err
	}
	printSuggestions(out, ranked)
	return nil
}

func printSuggestions(w io.Writer, ranked []solver.Suggestion) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWORD\tBITS\tPOPULAR")
	for i, s := range ranked {
		pop := ""
		if s.Preferred {
			pop = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%s\n", i+1, strings.ToUpper(s.Word), s.Entropy, pop)
	}
	_ = tw.Flush()
}

// parseGuesses turns "word=PATTERN" flags into solver constraints.
func parseGuesses(raw []string) ([]solver.Constraint, error) {
	out := make([]solver.Constraint, 0, len(raw))
	for _, r := range raw {
		word, pattern, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("guess %q: want word=PATTERN", r)
		}
		word = strings.ToLower(strings.TrimSpace(word))
		fb, err := feedback.ParsePattern(word, strings.TrimSpace(pattern))
		if err != nil {
			return nil, fmt.Errorf("guess %q: %w", r, err)
		}
		out = append(out, solver.Constraint{Guess: word, Feedback: fb})
	}
	return out, nil
}

func newFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback GUESS ANSWER",
		Short: "Print the G/Y/X pattern a guess earns against an answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			guess := strings.ToLower(args[0])
			answer := strings.ToLower(args[1])
			if len(guess) != len(answer) {
				return fmt.Errorf("%w: %q vs %q", feedback.ErrLengthMismatch, guess, answer)
			}
			fmt.Fprintln(cmd.OutOrStdout(), feedback.Evaluate(guess, answer).Pattern())
			return nil
		},
	}
}

func newDictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dicts",
		Short: "List the available dictionaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := library().Catalog()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return errors.New("no dictionaries found")
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LANG\tLENGTH\tWORDS\tPOPULAR")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", e.Language, e.Length, e.Words, e.Popular)
			}
			return tw.Flush()
		},
	}
}

// library resolves --words-dir, then WORDS_DIR, then the embedded lists.
func library() *words.Library {
	cfg := config.Load()
	if wordsDir != "" {
		cfg.WordsDir = wordsDir
	}
	return words.NewLibrary(cfg.WordsFS())
}
