package symbol

import "testing"

func TestSymbol(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	_, _ = w.RegisterStartSymbol("E")
	_, _ = w.RegisterNonTerminalSymbol("E'")
	_, _ = w.RegisterNonTerminalSymbol("T")
	_, _ = w.RegisterTerminalSymbol("+")
	_, _ = w.RegisterTerminalSymbol("id")

	nonTermTexts := []string{
		"", // Nil
		"E",
		"E'",
		"T",
	}

	termTexts := []string{
		"",            // Nil
		SymbolNameEOF, // EOF
		"+",
		"id",
	}

	tests := []struct {
		text          string
		isNil         bool
		isStart       bool
		isEOF         bool
		isNonTerminal bool
		isTerminal    bool
	}{
		{
			text:          "E",
			isStart:       true,
			isNonTerminal: true,
		},
		{
			text:          "E'",
			isNonTerminal: true,
		},
		{
			text:          "T",
			isNonTerminal: true,
		},
		{
			text:       "+",
			isTerminal: true,
		},
		{
			text:       "id",
			isTerminal: true,
		},
		{
			text:       SymbolNameEOF,
			isEOF:      true,
			isTerminal: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := tab.Reader()
			sym, ok := r.ToSymbol(tt.text)
			if !ok {
				t.Fatalf("symbol was not found")
			}
			testSymbolProperty(t, sym, tt.isNil, tt.isStart, tt.isEOF, tt.isNonTerminal, tt.isTerminal)
			text, ok := r.ToText(sym)
			if !ok {
				t.Fatalf("text was not found")
			}
			if text != tt.text {
				t.Fatalf("unexpected text representation; want: %v, got: %v", tt.text, text)
			}
		})
	}

	t.Run("Nil", func(t *testing.T) {
		testSymbolProperty(t, SymbolNil, true, false, false, false, false)
	})

	t.Run("texts of non-terminals", func(t *testing.T) {
		r := tab.Reader()
		ts, err := r.NonTerminalTexts()
		if err != nil {
			t.Fatal(err)
		}
		if len(ts) != len(nonTermTexts) {
			t.Fatalf("unexpected non-terminal count; want: %v (%#v), got: %v (%#v)", len(nonTermTexts), nonTermTexts, len(ts), ts)
		}
		for i, text := range ts {
			if text != nonTermTexts[i] {
				t.Fatalf("unexpected non-terminal; want: %v, got: %v", nonTermTexts[i], text)
			}
		}
		if r.NonTerminalCount() != len(nonTermTexts) {
			t.Fatalf("unexpected non-terminal count; want: %v, got: %v", len(nonTermTexts), r.NonTerminalCount())
		}
	})

	t.Run("texts of terminals", func(t *testing.T) {
		r := tab.Reader()
		ts := r.TerminalTexts()
		if len(ts) != len(termTexts) {
			t.Fatalf("unexpected terminal count; want: %v (%#v), got: %v (%#v)", len(termTexts), termTexts, len(ts), ts)
		}
		for i, text := range ts {
			if text != termTexts[i] {
				t.Fatalf("unexpected terminal; want: %v, got: %v", termTexts[i], text)
			}
		}
		if r.TerminalCount() != len(termTexts) {
			t.Fatalf("unexpected terminal count; want: %v, got: %v", len(termTexts), r.TerminalCount())
		}
	})

	t.Run("symbols are ordered by registration", func(t *testing.T) {
		r := tab.Reader()
		nonTerms := r.NonTerminalSymbols()
		if len(nonTerms) != 3 || !nonTerms[0].IsStart() {
			t.Fatalf("unexpected non-terminal symbols: %v", nonTerms)
		}
		terms := r.TerminalSymbols()
		if len(terms) != 3 || terms[0] != SymbolEOF {
			t.Fatalf("unexpected terminal symbols: %v", terms)
		}
	})
}

func TestSymbolTable_RejectsKindChange(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	if _, err := w.RegisterStartSymbol("S"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.RegisterTerminalSymbol("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.RegisterNonTerminalSymbol("a"); err == nil {
		t.Fatal("a terminal symbol must not be re-registered as a non-terminal symbol")
	}
	if _, err := w.RegisterTerminalSymbol("S"); err == nil {
		t.Fatal("the start symbol must not be re-registered as a terminal symbol")
	}
	if _, err := w.RegisterStartSymbol("T"); err == nil {
		t.Fatal("a second start symbol must be rejected")
	}
	sym, err := w.RegisterNonTerminalSymbol("S")
	if err != nil {
		t.Fatal(err)
	}
	if !sym.IsStart() {
		t.Fatalf("re-registering the start symbol must return the start symbol; got: %v", sym)
	}
}

func testSymbolProperty(t *testing.T, sym Symbol, isNil, isStart, isEOF, isNonTerminal, isTerminal bool) {
	t.Helper()

	if v := sym.IsNil(); v != isNil {
		t.Fatalf("isNil property is mismatched; want: %v, got: %v", isNil, v)
	}
	if v := sym.IsStart(); v != isStart {
		t.Fatalf("isStart property is mismatched; want: %v, got: %v", isStart, v)
	}
	if v := sym.IsEOF(); v != isEOF {
		t.Fatalf("isEOF property is mismatched; want: %v, got: %v", isEOF, v)
	}
	if v := sym.IsNonTerminal(); v != isNonTerminal {
		t.Fatalf("isNonTerminal property is mismatched; want: %v, got: %v", isNonTerminal, v)
	}
	if v := sym.IsTerminal(); v != isTerminal {
		t.Fatalf("isTerminal property is mismatched; want: %v, got: %v", isTerminal, v)
	}
}
