package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/ll1kit/grammar"
	spec "github.com/nihei9/ll1kit/spec/grammar"
)

func TestCompileAndShow(t *testing.T) {
	path := writeTestGrammar(t, "dangling.ll1", `S -> if E then S Else | other ;
Else -> else S | ε ;
E -> cond ;
`)
	a, src, err := analyzeGrammarFile([]string{path}, "first")
	if err != nil {
		t.Fatal(err)
	}

	for _, lv := range []int{spec.CompressionLevelNone, spec.CompressionLevelMin, spec.CompressionLevelMax} {
		cgram, err := a.Compile(src.name(), grammar.CompressionLevel(lv))
		if err != nil {
			t.Fatal(err)
		}
		outPath := filepath.Join(t.TempDir(), "out.json")
		err = writeCompiledGrammar(cgram, outPath)
		if err != nil {
			t.Fatal(err)
		}

		cgram, err = readCompiledGrammar(outPath)
		if err != nil {
			t.Fatal(err)
		}
		if cgram.Name != "dangling" || cgram.Syntactic.CompressionLevel != lv {
			t.Fatalf("unexpected compiled grammar: %v, level %v", cgram.Name, cgram.Syntactic.CompressionLevel)
		}

		var out strings.Builder
		err = writeReport(&out, cgram)
		if err != nil {
			t.Fatal(err)
		}
		for _, text := range []string{
			"1 conflict occurred.",
			"FIRST/FOLLOW conflict at M[Else, else]: Else → else S adopted, Else → ε rejected",
			"Else (nullable)",
			"Else: { else, $ }",
		} {
			if !strings.Contains(out.String(), text) {
				t.Fatalf("the report lacks %q:\n%v", text, out.String())
			}
		}

		out.Reset()
		err = writeCompiledTable(&out, cgram.Syntactic)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Else") {
			t.Fatalf("unexpected table:\n%v", out.String())
		}
	}
}

func TestMakeOutputFilePath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		path     string
		expected string
	}{
		{path: "", expected: ""},
		{path: dir, expected: filepath.Join(dir, "g.json")},
		{path: filepath.Join(dir, "x.json"), expected: filepath.Join(dir, "x.json")},
	}
	for _, tt := range tests {
		actual, err := makeOutputFilePath("g", tt.path)
		if err != nil {
			t.Fatal(err)
		}
		if actual != tt.expected {
			t.Fatalf("unexpected path; want: %v, got: %v", tt.expected, actual)
		}
	}
}
