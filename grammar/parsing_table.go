package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/ll1kit/grammar/symbol"
)

// ConflictPolicy decides what happens when two productions claim the same table cell.
type ConflictPolicy int

const (
	// ConflictPolicyFirstWins keeps the production declared earlier.
	ConflictPolicyFirstWins ConflictPolicy = iota
	// ConflictPolicyLastWins lets the production processed later overwrite the cell.
	ConflictPolicyLastWins
	// ConflictPolicyError keeps the production declared earlier and makes Analyze fail.
	ConflictPolicyError
)

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictPolicyFirstWins:
		return "first"
	case ConflictPolicyLastWins:
		return "last"
	case ConflictPolicyError:
		return "error"
	}
	return fmt.Sprintf("ConflictPolicy(%d)", int(p))
}

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(s) {
	case "first", "first-wins":
		return ConflictPolicyFirstWins, nil
	case "last", "last-wins":
		return ConflictPolicyLastWins, nil
	case "error":
		return ConflictPolicyError, nil
	}
	return ConflictPolicyFirstWins, fmt.Errorf("unknown conflict policy: %v (first|last|error)", s)
}

type ConflictKind string

const (
	// ConflictKindFirstFirst means both productions predict the terminal through their FIRST sets.
	ConflictKindFirstFirst = ConflictKind("FIRST/FIRST")
	// ConflictKindFirstFollow means at least one production predicts the terminal through FOLLOW.
	ConflictKindFirstFollow = ConflictKind("FIRST/FOLLOW")
)

type predictionSource int

const (
	predictedByNone predictionSource = iota
	predictedByFirst
	predictedByFollow
)

// Conflict is a table cell claimed by two productions. Adopted is the production left in the cell.
type Conflict struct {
	NonTerminal string
	Terminal    string
	Kind        ConflictKind
	Adopted     *Production
	Rejected    *Production
}

func (c *Conflict) String() string {
	return fmt.Sprintf("%v conflict at M[%v, %v]: %v adopted, %v rejected", c.Kind, c.NonTerminal, c.Terminal, c.Adopted, c.Rejected)
}

// ConflictError is returned by Analyze under ConflictPolicyError.
type ConflictError struct {
	Conflicts []*Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	if len(e.Conflicts) == 1 {
		fmt.Fprintf(&b, "the grammar is not LL(1); 1 conflict occurred")
	} else {
		fmt.Fprintf(&b, "the grammar is not LL(1); %v conflicts occurred", len(e.Conflicts))
	}
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "\n    %v", c)
	}
	return b.String()
}

// ParseTable maps (non-terminal, terminal) to the production a predictive parser applies. Rows are
// indexed by non-terminal numbers and columns by terminal numbers; the end marker is column 1.
type ParseTable struct {
	entries          []productionNum
	sources          []predictionSource
	nonTerminalCount int
	terminalCount    int
	conflicts        []*Conflict
	gram             *Grammar
}

func (t *ParseTable) pos(nonTerm, term symbol.Symbol) int {
	return nonTerm.Num().Int()*t.terminalCount + term.Num().Int()
}

func (t *ParseTable) readEntry(nonTerm, term symbol.Symbol) productionNum {
	return t.entries[t.pos(nonTerm, term)]
}

// Production returns the production in the cell (nonTerm, term).
func (t *ParseTable) Production(nonTerm, term string) (*Production, bool) {
	r := t.gram.symbolTable
	nt, ok := r.ToSymbol(nonTerm)
	if !ok || !nt.IsNonTerminal() {
		return nil, false
	}
	tm, ok := r.ToSymbol(term)
	if !ok || !tm.IsTerminal() {
		return nil, false
	}
	num := t.readEntry(nt, tm)
	if num == productionNumNil {
		return nil, false
	}
	prod, ok := t.gram.productionSet.findByNum(num)
	if !ok {
		return nil, false
	}
	return t.gram.viewProduction(prod), true
}

// Lookup returns the RHS replacing nonTerm on the stack when term is the lookahead. An ε-production
// yields an empty, non-nil slice.
func (t *ParseTable) Lookup(nonTerm, term string) ([]string, bool) {
	prod, ok := t.Production(nonTerm, term)
	if !ok {
		return nil, false
	}
	return prod.RHS, true
}

type TableEntry struct {
	NonTerminal string
	Terminal    string
	Production  *Production
}

// Entries returns the filled cells row by row. Within a row, terminals come in declaration order and
// the end marker comes last.
func (t *ParseTable) Entries() []*TableEntry {
	r := t.gram.symbolTable
	var cols []symbol.Symbol
	for _, sym := range r.TerminalSymbols() {
		if sym.IsEOF() {
			continue
		}
		cols = append(cols, sym)
	}
	cols = append(cols, symbol.SymbolEOF)

	var entries []*TableEntry
	for _, nt := range r.NonTerminalSymbols() {
		for _, tm := range cols {
			num := t.readEntry(nt, tm)
			if num == productionNumNil {
				continue
			}
			prod, ok := t.gram.productionSet.findByNum(num)
			if !ok {
				continue
			}
			entries = append(entries, &TableEntry{
				NonTerminal: t.gram.toText(nt),
				Terminal:    t.gram.toText(tm),
				Production:  t.gram.viewProduction(prod),
			})
		}
	}
	return entries
}

func (t *ParseTable) Conflicts() []*Conflict {
	return append([]*Conflict{}, t.conflicts...)
}

func (t *ParseTable) HasConflicts() bool {
	return len(t.conflicts) > 0
}

type ll1TableBuilder struct {
	gram      *Grammar
	first     *firstSet
	follow    *followSet
	policy    ConflictPolicy
	conflicts []*Conflict
}

func (b *ll1TableBuilder) build() (*ParseTable, error) {
	r := b.gram.symbolTable
	tab := &ParseTable{
		nonTerminalCount: r.NonTerminalCount(),
		terminalCount:    r.TerminalCount(),
		gram:             b.gram,
	}
	tab.entries = make([]productionNum, tab.nonTerminalCount*tab.terminalCount)
	tab.sources = make([]predictionSource, tab.nonTerminalCount*tab.terminalCount)

	for _, nt := range r.NonTerminalSymbols() {
		prods, ok := b.gram.productionSet.findByLHS(nt)
		if !ok {
			return nil, fmt.Errorf("productions were not found; LHS: %v", nt)
		}
		flw, err := b.follow.find(nt)
		if err != nil {
			return nil, err
		}
		for _, prod := range prods {
			fst, err := b.first.find(prod, 0)
			if err != nil {
				return nil, err
			}
			for _, a := range fst.terminals() {
				b.writeEntry(tab, nt, a, prod, predictedByFirst)
			}
			if fst.empty {
				for _, a := range flw.lookAheads() {
					b.writeEntry(tab, nt, a, prod, predictedByFollow)
				}
			}
		}
	}

	tab.conflicts = b.conflicts
	return tab, nil
}

// writeEntry writes a production to a cell. When the cell already holds another production,
// the conflict is recorded and the policy decides which one stays.
func (b *ll1TableBuilder) writeEntry(tab *ParseTable, nt, a symbol.Symbol, prod *production, src predictionSource) {
	pos := tab.pos(nt, a)
	cur := tab.entries[pos]
	if cur == productionNumNil {
		tab.entries[pos] = prod.num
		tab.sources[pos] = src
		return
	}
	if cur == prod.num {
		return
	}

	kind := ConflictKindFirstFollow
	if tab.sources[pos] == predictedByFirst && src == predictedByFirst {
		kind = ConflictKindFirstFirst
	}

	curProd, _ := b.gram.productionSet.findByNum(cur)
	adopted, rejected := curProd, prod
	if b.policy == ConflictPolicyLastWins {
		adopted, rejected = prod, curProd
		tab.entries[pos] = prod.num
		tab.sources[pos] = src
	}

	c := &Conflict{
		NonTerminal: b.gram.toText(nt),
		Terminal:    b.gram.toText(a),
		Kind:        kind,
		Adopted:     b.gram.viewProduction(adopted),
		Rejected:    b.gram.viewProduction(rejected),
	}
	tracer().Infof("%v", c)
	b.conflicts = append(b.conflicts, c)
}
