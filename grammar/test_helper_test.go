package grammar

import (
	"testing"

	"github.com/nihei9/ll1kit/grammar/symbol"
)

// referenceRules is the grammar the examples of the package documentation use.
var referenceRules = []RuleSpec{
	{LHS: "A", Alternatives: "a B C"},
	{LHS: "B", Alternatives: "b bas | big C boss"},
	{LHS: "C", Alternatives: "ε | c"},
}

// exprRules is the classic expression grammar with left recursion removed.
var exprRules = []RuleSpec{
	{LHS: "E", Alternatives: "T E'"},
	{LHS: "E'", Alternatives: "+ T E' | ε"},
	{LHS: "T", Alternatives: "F T'"},
	{LHS: "T'", Alternatives: "* F T' | ε"},
	{LHS: "F", Alternatives: "( E ) | id"},
}

func genTestGrammar(t *testing.T, rules []RuleSpec, opts ...GrammarOption) *Grammar {
	t.Helper()

	gram, err := NewGrammar(rules, opts...)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

func genTestAnalysis(t *testing.T, rules []RuleSpec, opts ...AnalysisOption) *Analysis {
	t.Helper()

	a, err := Analyze(genTestGrammar(t, rules), opts...)
	if err != nil {
		t.Fatalf("failed to analyze a grammar: %v", err)
	}
	return a
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

// newTestProductionGenerator returns productions registered in a grammar, so that they carry
// their production numbers.
func newTestProductionGenerator(t *testing.T, gram *Grammar) testProductionGenerator {
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		p, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}
		prod, ok := gram.productionSet.findByID(p.id)
		if !ok {
			t.Fatalf("a production was not found: %v → %v", lhs, rhs)
		}
		return prod
	}
}

func equalTexts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsText(texts []string, text string) bool {
	for _, s := range texts {
		if s == text {
			return true
		}
	}
	return false
}
