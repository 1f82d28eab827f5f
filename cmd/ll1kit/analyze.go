package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/ll1kit/grammar"
	"github.com/spf13/cobra"
)

var analyzeFlags = struct {
	policy  *string
	section *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [grammar file path]",
		Short: "Print FIRST, FOLLOW, and the prediction table of a grammar",
		Example: `  ll1kit analyze grammar.ll1
  ll1kit analyze --policy error < grammar.ll1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	analyzeFlags.policy = cmd.Flags().StringP("policy", "p", "first", "conflict policy [first|last|error]")
	analyzeFlags.section = cmd.Flags().StringSliceP("section", "s", []string{"grammar", "sets", "table", "conflicts"}, "sections to print [grammar|sets|table|conflicts]")
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, _, err := analyzeGrammarFile(args, *analyzeFlags.policy)
	if err != nil {
		return err
	}
	return writeAnalysis(os.Stdout, a, *analyzeFlags.section)
}

var sectionWriters = map[string]func(w io.Writer, a *grammar.Analysis) error{
	"grammar": func(w io.Writer, a *grammar.Analysis) error {
		return writeGrammar(w, a.Grammar)
	},
	"sets":      writeFirstFollow,
	"table":     writeParseTable,
	"conflicts": writeConflicts,
}

func writeAnalysis(w io.Writer, a *grammar.Analysis, sections []string) error {
	for _, sec := range sections {
		write, ok := sectionWriters[sec]
		if !ok {
			return fmt.Errorf("unknown section: %v", sec)
		}
		err := write(w, a)
		if err != nil {
			return err
		}
	}
	return nil
}
