package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/nihei9/ll1kit/error"
	"github.com/nihei9/ll1kit/grammar"
	"github.com/nihei9/ll1kit/spec"
)

var cleanUps []func()

// runCleanUps removes temporary files. It runs after errors have been printed because a
// verr.SpecError reads its source line from the file when formatted.
func runCleanUps() {
	for i := len(cleanUps) - 1; i >= 0; i-- {
		cleanUps[i]()
	}
	cleanUps = nil
}

// grammarSource is a grammar file. When no path is given, the grammar is read from stdin and kept in
// a temporary file until runCleanUps, so that error messages can quote the source lines.
type grammarSource struct {
	path       string
	sourceName string
	tmpDirPath string
}

func openGrammarSource(args []string) (*grammarSource, error) {
	if len(args) > 0 {
		return &grammarSource{
			path:       args[0],
			sourceName: args[0],
		}, nil
	}

	tmpDirPath, err := os.MkdirTemp("", "ll1kit-*")
	if err != nil {
		return nil, err
	}
	cleanUps = append(cleanUps, func() {
		os.RemoveAll(tmpDirPath)
	})
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(tmpDirPath, "stdin.ll1")
	err = os.WriteFile(path, src, 0600)
	if err != nil {
		return nil, err
	}
	return &grammarSource{
		path:       path,
		sourceName: "stdin",
		tmpDirPath: tmpDirPath,
	}, nil
}

// name returns the name of the grammar: the file name without its extension.
func (s *grammarSource) name() string {
	if s.tmpDirPath != "" {
		return "stdin"
	}
	base := filepath.Base(s.path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func (s *grammarSource) readGrammar() (*grammar.Grammar, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", s.path, err)
	}
	defer f.Close()

	gram, err := parseGrammar(f)
	if err != nil {
		if specErrs, ok := err.(verr.SpecErrors); ok {
			for _, e := range specErrs {
				e.FilePath = s.path
				e.SourceName = s.sourceName
			}
		}
		return nil, err
	}
	return gram, nil
}

func parseGrammar(src io.Reader) (*grammar.Grammar, error) {
	ast, err := spec.Parse(src)
	if err != nil {
		return nil, err
	}
	return grammar.NewGrammar(ast.RuleSpecs())
}

func analyzeGrammarFile(args []string, policy string) (*grammar.Analysis, *grammarSource, error) {
	p, err := grammar.ParseConflictPolicy(policy)
	if err != nil {
		return nil, nil, err
	}

	src, err := openGrammarSource(args)
	if err != nil {
		return nil, nil, err
	}

	gram, err := src.readGrammar()
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("grammar %v read from %v", src.name(), src.sourceName)

	a, err := grammar.Analyze(gram, grammar.WithConflictPolicy(p))
	if err != nil {
		return nil, nil, err
	}
	return a, src, nil
}
