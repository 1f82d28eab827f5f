package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/nihei9/ll1kit/grammar/symbol"
)

// symbolComparator orders symbols by their encoded values: terminals by registration order
// and the end marker after all of them.
func symbolComparator(a, b interface{}) int {
	return utils.UInt16Comparator(uint16(a.(symbol.Symbol)), uint16(b.(symbol.Symbol)))
}

func newSymbolSet() *treeset.Set {
	return treeset.NewWith(symbolComparator)
}

type firstEntry struct {
	symbols *treeset.Set
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: newSymbolSet(),
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for _, v := range target.symbols.Values() {
		added := e.add(v.(symbol.Symbol))
		if added {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) contains(sym symbol.Symbol) bool {
	return e.symbols.Contains(sym)
}

func (e *firstEntry) terminals() []symbol.Symbol {
	vals := e.symbols.Values()
	syms := make([]symbol.Symbol, 0, len(vals))
	for _, v := range vals {
		syms = append(syms, v.(symbol.Symbol))
	}
	return syms
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of the RHS of prod from the position head.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if prod.rhsLen <= head {
		return fst.findBySequence(nil)
	}
	return fst.findBySequence(prod.rhs[head:])
}

// findBySequence returns FIRST of a symbol sequence. FIRST of an empty sequence contains only the empty string.
func (fst *firstSet) findBySequence(seq []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range seq {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

type firstComContext struct {
	first *firstSet
}

func newFirstComContext(prods *productionSet) *firstComContext {
	return &firstComContext{
		first: newFirstSet(prods),
	}
}

// genFirstSet computes FIRST of all non-terminals. Entries only grow and are bounded by the terminals
// of the grammar, so repeating passes until nothing changes terminates even when non-terminals refer
// to themselves.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	cc := newFirstComContext(prods)
	pass := 0
	for {
		pass++
		more := false
		for _, prod := range prods.getAllProductions() {
			e := cc.first.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(cc, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		tracer().Debugf("FIRST pass %d: changed = %v", pass, more)
		if !more {
			break
		}
	}
	return cc.first, nil
}

func genProdFirstEntry(cc *firstComContext, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := cc.first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}

// FirstTable holds FIRST of every symbol of a grammar.
type FirstTable struct {
	first *firstSet
	gram  *Grammar
}

// First returns FIRST of a symbol. The empty marker, when present, comes last. A terminal, the empty
// marker, and the end marker are their own FIRST.
func (t *FirstTable) First(text string) ([]string, bool) {
	if text == t.gram.emptyMarker {
		return []string{t.gram.emptyMarker}, true
	}
	sym, ok := t.gram.symbolTable.ToSymbol(text)
	if !ok {
		return nil, false
	}
	if sym.IsTerminal() {
		return []string{text}, true
	}
	e := t.first.findBySymbol(sym)
	if e == nil {
		return nil, false
	}
	return t.entryTexts(e), true
}

// Empty reports whether a symbol can derive the empty string.
func (t *FirstTable) Empty(text string) bool {
	if text == t.gram.emptyMarker {
		return true
	}
	sym, ok := t.gram.symbolTable.ToSymbol(text)
	if !ok || sym.IsTerminal() {
		return false
	}
	e := t.first.findBySymbol(sym)
	return e != nil && e.empty
}

// Sequence returns FIRST of a symbol sequence, computed left to right.
func (t *FirstTable) Sequence(texts ...string) ([]string, error) {
	seq := make([]symbol.Symbol, 0, len(texts))
	for _, text := range texts {
		if text == t.gram.emptyMarker {
			continue
		}
		sym, ok := t.gram.symbolTable.ToSymbol(text)
		if !ok {
			return nil, fmt.Errorf("unknown symbol: %v", text)
		}
		seq = append(seq, sym)
	}
	e, err := t.first.findBySequence(seq)
	if err != nil {
		return nil, err
	}
	return t.entryTexts(e), nil
}

func (t *FirstTable) entryTexts(e *firstEntry) []string {
	texts := make([]string, 0, e.symbols.Size()+1)
	for _, sym := range e.terminals() {
		texts = append(texts, t.gram.toText(sym))
	}
	if e.empty {
		texts = append(texts, t.gram.emptyMarker)
	}
	return texts
}
