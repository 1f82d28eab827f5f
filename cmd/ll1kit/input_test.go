package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	verr "github.com/nihei9/ll1kit/error"
)

const referenceGrammar = `A -> a B C ;
B -> b bas
   | big C boss ;
C -> ε | c ;
`

func writeTestGrammar(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(src), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeGrammarFile(t *testing.T) {
	path := writeTestGrammar(t, "reference.ll1", referenceGrammar)

	a, src, err := analyzeGrammarFile([]string{path}, "first")
	if err != nil {
		t.Fatal(err)
	}
	if src.name() != "reference" {
		t.Fatalf("unexpected grammar name: %v", src.name())
	}
	if !a.IsLL1() {
		t.Fatalf("the reference grammar is LL(1)")
	}

	var out strings.Builder
	err = writeAnalysis(&out, a, []string{"sets", "table", "conflicts"})
	if err != nil {
		t.Fatal(err)
	}
	for _, text := range []string{"{ boss, $ }", "{ c, ε }", "B → big C boss", "No conflict"} {
		if !strings.Contains(out.String(), text) {
			t.Fatalf("the output lacks %q:\n%v", text, out.String())
		}
	}

	if err := writeAnalysis(&out, a, []string{"states"}); err == nil {
		t.Fatalf("an unknown section must be an error")
	}
}

func TestAnalyzeGrammarFile_Errors(t *testing.T) {
	t.Run("the error position refers to the file", func(t *testing.T) {
		path := writeTestGrammar(t, "broken.ll1", "A -> a B ;\n")
		_, _, err := analyzeGrammarFile([]string{path}, "first")
		specErrs, ok := err.(verr.SpecErrors)
		if !ok || len(specErrs) != 1 {
			t.Fatalf("unexpected error: %v", err)
		}
		if specErrs[0].FilePath != path || specErrs[0].SourceName != path || specErrs[0].Row != 1 {
			t.Fatalf("unexpected error position: %+v", specErrs[0])
		}
		if !strings.Contains(specErrs[0].Error(), "A -> a B ;") {
			t.Fatalf("the message must quote the source line: %v", specErrs[0])
		}
	})

	t.Run("an error in stdin quotes the source line", func(t *testing.T) {
		path := writeTestGrammar(t, "stdin.ll1", "A -> a B ;\n")
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		stdin := os.Stdin
		os.Stdin = f
		defer func() {
			os.Stdin = stdin
		}()
		defer runCleanUps()

		_, _, err = analyzeGrammarFile(nil, "first")
		specErrs, ok := err.(verr.SpecErrors)
		if !ok || len(specErrs) != 1 {
			t.Fatalf("unexpected error: %v", err)
		}
		if specErrs[0].SourceName != "stdin" {
			t.Fatalf("unexpected source name: %v", specErrs[0].SourceName)
		}
		msg := specErrs[0].Error()
		if !strings.HasPrefix(msg, "stdin: 1: ") || !strings.Contains(msg, "A -> a B ;") {
			t.Fatalf("the message must quote the source line: %v", msg)
		}

		tmpPath := specErrs[0].FilePath
		runCleanUps()
		if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
			t.Fatalf("the temporary file must be removed: %v", tmpPath)
		}
	})

	t.Run("an unknown policy", func(t *testing.T) {
		path := writeTestGrammar(t, "reference.ll1", referenceGrammar)
		if _, _, err := analyzeGrammarFile([]string{path}, "random"); err == nil {
			t.Fatalf("an unknown policy must be an error")
		}
	})

	t.Run("a missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.ll1")
		if _, _, err := analyzeGrammarFile([]string{path}, "first"); err == nil {
			t.Fatalf("a missing file must be an error")
		}
	})
}
