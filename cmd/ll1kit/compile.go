package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nihei9/ll1kit/grammar"
	spec "github.com/nihei9/ll1kit/spec/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output   *string
	compress *int
	policy   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile [grammar file path]",
		Short:   "Compile a grammar into a prediction table",
		Example: `  ll1kit compile grammar.ll1 -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compress = cmd.Flags().IntP("compress", "c", spec.CompressionLevelMax, "compression level of the table [0|1|2]")
	compileFlags.policy = cmd.Flags().StringP("policy", "p", "first", "conflict policy [first|last|error]")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	a, src, err := analyzeGrammarFile(args, *compileFlags.policy)
	if err != nil {
		return err
	}

	cgram, err := a.Compile(src.name(), grammar.CompressionLevel(*compileFlags.compress))
	if err != nil {
		return err
	}

	err = writeCompiledGrammar(cgram, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output file: %w", err)
	}

	if n := len(cgram.Report.Conflicts); n == 1 {
		fmt.Fprintf(os.Stderr, "1 conflict\n")
	} else if n > 1 {
		fmt.Fprintf(os.Stderr, "%v conflicts\n", n)
	}

	return nil
}

// writeCompiledGrammar writes a compiled grammar to path. When path is a directory, the file is named
// <grammar-name>.json. When path is empty, the compiled grammar goes to stdout.
func writeCompiledGrammar(cgram *spec.CompiledGrammar, path string) error {
	outPath, err := makeOutputFilePath(cgram.Name, path)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	b, err := json.Marshal(cgram)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func makeOutputFilePath(gramName string, path string) (string, error) {
	if path == "" {
		return "", nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		return path, nil
	}

	return filepath.Join(path, gramName+".json"), nil
}
