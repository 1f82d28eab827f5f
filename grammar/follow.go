package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/ll1kit/grammar/symbol"
)

type followEntry struct {
	symbols *treeset.Set
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: newSymbolSet(),
		eof:     false,
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for _, v := range fst.symbols.Values() {
			added := e.add(v.(symbol.Symbol))
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for _, v := range flw.symbols.Values() {
			added := e.add(v.(symbol.Symbol))
			if added {
				changed = true
			}
		}
		if flw.eof {
			added := e.addEOF()
			if added {
				changed = true
			}
		}
	}

	return changed
}

func (e *followEntry) terminalSymbols() []symbol.Symbol {
	vals := e.symbols.Values()
	syms := make([]symbol.Symbol, 0, len(vals))
	for _, v := range vals {
		syms = append(syms, v.(symbol.Symbol))
	}
	return syms
}

// lookAheads returns the terminals of the entry followed by the end marker when present.
func (e *followEntry) lookAheads() []symbol.Symbol {
	syms := e.terminalSymbols()
	if e.eof {
		syms = append(syms, symbol.SymbolEOF)
	}
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	prods   *productionSet
	first   *firstSet
	follow  *followSet
	nonTerm []symbol.Symbol
}

func newFollowComContext(prods *productionSet, first *firstSet, nonTerms []symbol.Symbol) *followComContext {
	return &followComContext{
		prods:   prods,
		first:   first,
		follow:  newFollow(prods),
		nonTerm: nonTerms,
	}
}

// genFollowSet computes FOLLOW of all non-terminals by repeating full passes over the productions
// until a pass adds nothing.
func genFollowSet(prods *productionSet, first *firstSet, nonTerms []symbol.Symbol) (*followSet, error) {
	cc := newFollowComContext(prods, first, nonTerms)
	pass := 0
	for {
		pass++
		more, err := genFollowPass(cc)
		if err != nil {
			return nil, err
		}
		tracer().Debugf("FOLLOW pass %d: changed = %v", pass, more)
		if !more {
			break
		}
	}

	return cc.follow, nil
}

// genFollowPass runs one full pass and reports whether any entry grew.
func genFollowPass(cc *followComContext) (bool, error) {
	more := false
	for _, ntsym := range cc.nonTerm {
		e, err := cc.follow.find(ntsym)
		if err != nil {
			return false, err
		}
		changed, err := genFollowEntry(cc, e, ntsym)
		if err != nil {
			return false, err
		}
		if changed {
			more = true
		}
	}
	return more, nil
}

func genFollowEntry(cc *followComContext, acc *followEntry, ntsym symbol.Symbol) (bool, error) {
	changed := false

	if ntsym.IsStart() {
		added := acc.addEOF()
		if added {
			changed = true
		}
	}
	for _, prod := range cc.prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if sym != ntsym {
				continue
			}
			fst, err := cc.first.find(prod, i+1)
			if err != nil {
				return false, err
			}
			added := acc.merge(fst, nil)
			if added {
				changed = true
			}
			if fst.empty {
				flw, err := cc.follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				added := acc.merge(nil, flw)
				if added {
					changed = true
				}
			}
		}
	}

	return changed, nil
}

// FollowTable holds FOLLOW of every non-terminal of a grammar.
type FollowTable struct {
	follow *followSet
	gram   *Grammar
}

// Follow returns FOLLOW of a non-terminal. The end marker, when present, comes last.
func (t *FollowTable) Follow(text string) ([]string, bool) {
	sym, ok := t.gram.symbolTable.ToSymbol(text)
	if !ok || !sym.IsNonTerminal() {
		return nil, false
	}
	e, err := t.follow.find(sym)
	if err != nil {
		return nil, false
	}
	syms := e.lookAheads()
	texts := make([]string, 0, len(syms))
	for _, sym := range syms {
		texts = append(texts, t.gram.toText(sym))
	}
	return texts, true
}
