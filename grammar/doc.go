/*
Package grammar computes the artifacts a predictive (LL(1)) parser is built from.

A grammar is given as a list of rules, each a non-terminal and a string of alternatives:

	gram, err := grammar.NewGrammar([]grammar.RuleSpec{
		{LHS: "A", Alternatives: "a B C"},
		{LHS: "B", Alternatives: "b bas | big C boss"},
		{LHS: "C", Alternatives: "ε | c"},
	})

Symbols beginning with an upper-case letter are non-terminals, everything else is a terminal,
and `ε` denotes the empty string. The LHS of the first rule is the start symbol.

Analyze computes FIRST, FOLLOW, and the parsing table in this order:

	a, err := grammar.Analyze(gram)
	a.First.First("B")         // [b big]
	a.Follow.Follow("C")       // [boss $]
	a.Table.Lookup("C", "$")   // [] (C → ε)

A cell claimed by more than one production is a conflict. Conflicts are always recorded;
the conflict policy decides which production stays in the cell, or whether Analyze fails.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'll1kit.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("ll1kit.grammar")
}
