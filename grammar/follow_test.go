package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type follow struct {
	nonTermText string
	symbols     []string
	eof         bool
}

func TestFollowSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ll1kit.grammar")
	defer teardown()

	tests := []struct {
		caption string
		rules   []RuleSpec
		follow  []follow
	}{
		{
			caption: "the reference grammar",
			rules:   referenceRules,
			follow: []follow{
				{nonTermText: "A", symbols: []string{}, eof: true},
				{nonTermText: "B", symbols: []string{"c"}, eof: true},
				{nonTermText: "C", symbols: []string{"boss"}, eof: true},
			},
		},
		{
			caption: "the expression grammar",
			rules:   exprRules,
			follow: []follow{
				{nonTermText: "E", symbols: []string{")"}, eof: true},
				{nonTermText: "E'", symbols: []string{")"}, eof: true},
				{nonTermText: "T", symbols: []string{"+", ")"}, eof: true},
				{nonTermText: "T'", symbols: []string{"+", ")"}, eof: true},
				{nonTermText: "F", symbols: []string{"+", "*", ")"}, eof: true},
			},
		},
		{
			caption: "the start symbol has only the end marker when nothing follows it",
			rules: []RuleSpec{
				{LHS: "S", Alternatives: "ε"},
			},
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
			},
		},
		{
			caption: "FOLLOW passes through a nullable suffix",
			rules: []RuleSpec{
				{LHS: "S", Alternatives: "X Y Z t"},
				{LHS: "X", Alternatives: "x"},
				{LHS: "Y", Alternatives: "y | ε"},
				{LHS: "Z", Alternatives: "z | ε"},
			},
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "X", symbols: []string{"y", "z", "t"}},
				{nonTermText: "Y", symbols: []string{"z", "t"}},
				{nonTermText: "Z", symbols: []string{"t"}},
			},
		},
		{
			caption: "a self-recursive tail propagates FOLLOW of its LHS",
			rules: []RuleSpec{
				{LHS: "S", Alternatives: "L ;"},
				{LHS: "L", Alternatives: "item L | ε"},
			},
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "L", symbols: []string{";"}},
			},
		},
		{
			caption: "a non-terminal appearing nowhere has an empty FOLLOW",
			rules: []RuleSpec{
				{LHS: "S", Alternatives: "s"},
				{LHS: "U", Alternatives: "u S"},
			},
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "U", symbols: []string{}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			flw, gram := genActualFollow(t, tt.rules)

			for _, ttFollow := range tt.follow {
				sym, ok := gram.symbolTable.ToSymbol(ttFollow.nonTermText)
				if !ok {
					t.Fatalf("a symbol '%v' was not found", ttFollow.nonTermText)
				}

				actualFollow, err := flw.find(sym)
				if err != nil {
					t.Fatalf("failed to get a FOLLOW entry; non-terminal symbol: %v (%v), error: %v", ttFollow.nonTermText, sym, err)
				}

				expectedFollow := genExpectedFollowEntry(t, ttFollow.symbols, ttFollow.eof, gram)

				testFollow(t, actualFollow, expectedFollow)
			}
		})
	}
}

// Running one more pass over stabilized FOLLOW sets must not add anything.
func TestFollowSet_Idempotence(t *testing.T) {
	for _, rules := range [][]RuleSpec{referenceRules, exprRules} {
		gram := genTestGrammar(t, rules)
		fst, err := genFirstSet(gram.productionSet)
		if err != nil {
			t.Fatal(err)
		}
		cc := newFollowComContext(gram.productionSet, fst, gram.symbolTable.NonTerminalSymbols())
		for {
			more, err := genFollowPass(cc)
			if err != nil {
				t.Fatal(err)
			}
			if !more {
				break
			}
		}
		more, err := genFollowPass(cc)
		if err != nil {
			t.Fatal(err)
		}
		if more {
			t.Fatalf("a pass over stabilized FOLLOW sets changed them")
		}
	}
}

// For every occurrence A → α B β: FIRST(β)\{ε} ⊆ FOLLOW(B), and FOLLOW(A) ⊆ FOLLOW(B) when β is nullable.
func TestFollowSet_SubsetProperties(t *testing.T) {
	for _, rules := range [][]RuleSpec{referenceRules, exprRules} {
		a := genTestAnalysis(t, rules)
		for _, prod := range a.Grammar.Productions() {
			for i, sym := range prod.RHS {
				if !a.Grammar.IsNonTerminal(sym) {
					continue
				}
				flwB, _ := a.Follow.Follow(sym)
				fstBeta, err := a.First.Sequence(prod.RHS[i+1:]...)
				if err != nil {
					t.Fatal(err)
				}
				for _, text := range fstBeta {
					if text == a.Grammar.EmptyMarker() {
						continue
					}
					if !containsText(flwB, text) {
						t.Fatalf("FOLLOW(%v) = %v lacks %v of FIRST(%v)", sym, flwB, text, prod.RHS[i+1:])
					}
				}
				if !containsText(fstBeta, a.Grammar.EmptyMarker()) {
					continue
				}
				flwA, _ := a.Follow.Follow(prod.LHS)
				for _, text := range flwA {
					if !containsText(flwB, text) {
						t.Fatalf("FOLLOW(%v) = %v lacks %v of FOLLOW(%v)", sym, flwB, text, prod.LHS)
					}
				}
			}
		}
	}
}

func TestFollowTable(t *testing.T) {
	a := genTestAnalysis(t, referenceRules)

	flw, ok := a.Follow.Follow("A")
	if !ok {
		t.Fatalf("FOLLOW(A) was not found")
	}
	if expected := []string{"$"}; !equalTexts(flw, expected) {
		t.Fatalf("unexpected FOLLOW(A); want: %v, got: %v", expected, flw)
	}
	flw, _ = a.Follow.Follow("B")
	if expected := []string{"c", "$"}; !equalTexts(flw, expected) {
		t.Fatalf("unexpected FOLLOW(B); want: %v, got: %v", expected, flw)
	}
	flw, _ = a.Follow.Follow("C")
	if expected := []string{"boss", "$"}; !equalTexts(flw, expected) {
		t.Fatalf("unexpected FOLLOW(C); want: %v, got: %v", expected, flw)
	}

	if _, ok := a.Follow.Follow("a"); ok {
		t.Fatalf("FOLLOW of a terminal must not be found")
	}
	if _, ok := a.Follow.Follow("D"); ok {
		t.Fatalf("FOLLOW of an unknown symbol must not be found")
	}
}

func genActualFollow(t *testing.T, rules []RuleSpec) (*followSet, *Grammar) {
	t.Helper()

	gram := genTestGrammar(t, rules)
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	flw, err := genFollowSet(gram.productionSet, fst, gram.symbolTable.NonTerminalSymbols())
	if err != nil {
		t.Fatal(err)
	}
	if flw == nil {
		t.Fatal("genFollowSet returned nil without any error")
	}

	return flw, gram
}

func genExpectedFollowEntry(t *testing.T, symbols []string, eof bool, gram *Grammar) *followEntry {
	t.Helper()

	entry := newFollowEntry()
	if eof {
		entry.addEOF()
	}
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	for _, sym := range symbols {
		entry.add(genSym(sym))
	}

	return entry
}

func testFollow(t *testing.T, actual, expected *followEntry) {
	t.Helper()

	if actual.eof != expected.eof {
		t.Errorf("eof is mismatched; want: %v, got: %v", expected.eof, actual.eof)
	}

	if actual.symbols.Size() != expected.symbols.Size() {
		t.Fatalf("unexpected symbol count of a FOLLOW entry; want: %v, got: %v", expected.symbols, actual.symbols)
	}

	for _, eSym := range expected.symbols.Values() {
		if !actual.symbols.Contains(eSym) {
			t.Fatalf("invalid FOLLOW entry; want: %v, got: %v", expected.symbols, actual.symbols)
		}
	}
}
