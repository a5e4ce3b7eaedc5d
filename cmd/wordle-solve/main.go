// cmd/wordle-solve/main.go
//
// Offline command-line front end for the solver.
//
//   wordle-solve rank --guess crane=XGGYG --guess trace=GXYXY --limit 10
//   wordle-solve feedback crane trace
//   wordle-solve dicts
//
// Word lists come from the embedded library unless --words-dir (or
// WORDS_DIR) points somewhere else.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	wordsDir string
	verbose  bool

	rootCmd = &cobra.Command{
		Use:   "wordle-solve",
		Short: "Entropy-ranked guess suggestions for Wordle-style puzzles",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lvl := zerolog.WarnLevel
			if verbose {
				lvl = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(lvl)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&wordsDir, "words-dir", "", "directory of <lang>/<length>.txt word lists (default: embedded)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(newRankCmd(), newFeedbackCmd(), newDictsCmd())
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
