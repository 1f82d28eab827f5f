package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	verr "github.com/nihei9/ll1kit/error"
	"github.com/nihei9/ll1kit/grammar/symbol"
)

// EmptyMarker is the default literal denoting the empty string in alternatives.
const EmptyMarker = "ε"

// RuleSpec is one rule of a grammar: a non-terminal and its alternatives. Alternatives are separated by `|`,
// and symbols within an alternative are separated by white spaces. Row is optional and is only used to
// report errors.
type RuleSpec struct {
	LHS          string
	Alternatives string
	Row          int
}

type grammarConfig struct {
	emptyMarker   string
	isNonTerminal func(text string) bool
}

type GrammarOption func(config *grammarConfig)

// WithEmptyMarker replaces the literal denoting the empty string.
func WithEmptyMarker(marker string) GrammarOption {
	return func(config *grammarConfig) {
		config.emptyMarker = marker
	}
}

// WithNonTerminalClassifier replaces the naming convention telling non-terminals from terminals.
func WithNonTerminalClassifier(isNonTerminal func(text string) bool) GrammarOption {
	return func(config *grammarConfig) {
		config.isNonTerminal = isNonTerminal
	}
}

// IsUpperInitial is the default naming convention: a symbol beginning with an upper-case letter is a
// non-terminal.
func IsUpperInitial(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsUpper(r)
}

// Grammar is an immutable context-free grammar. The start symbol is the LHS of the first rule.
type Grammar struct {
	rules         []RuleSpec
	symbolTable   *symbol.SymbolTableReader
	productionSet *productionSet
	startSymbol   symbol.Symbol
	emptyMarker   string
}

// NewGrammar builds a grammar from rules. When the rules contain errors, NewGrammar returns all of them
// as verr.SpecErrors.
func NewGrammar(rules []RuleSpec, opts ...GrammarOption) (*Grammar, error) {
	b := GrammarBuilder{
		Rules: rules,
	}
	return b.Build(opts...)
}

type GrammarBuilder struct {
	Rules []RuleSpec

	config *grammarConfig
	errs   verr.SpecErrors
}

func (b *GrammarBuilder) Build(opts ...GrammarOption) (*Grammar, error) {
	b.config = &grammarConfig{
		emptyMarker:   EmptyMarker,
		isNonTerminal: IsUpperInitial,
	}
	for _, opt := range opts {
		opt(b.config)
	}
	b.errs = nil

	if len(b.Rules) == 0 {
		return nil, verr.SpecErrors{
			{
				Cause: semErrNoProduction,
			},
		}
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	// Non-terminals are registered before any RHS is read so that their numbers follow the order
	// of the rules and so that forward references resolve.
	for i, rule := range b.Rules {
		lhs := strings.TrimSpace(rule.LHS)
		if !b.isValidLHS(lhs) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrInvalidLHS,
				Detail: rule.LHS,
				Row:    rule.Row,
			})
			continue
		}
		var err error
		if i == 0 {
			_, err = w.RegisterStartSymbol(lhs)
		} else {
			_, err = w.RegisterNonTerminalSymbol(lhs)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	r := symTab.Reader()
	prods := newProductionSet()
	for _, rule := range b.Rules {
		lhs, _ := r.ToSymbol(strings.TrimSpace(rule.LHS))
		for _, alt := range splitAlternatives(rule.Alternatives, b.config.emptyMarker) {
			rhs, ok := b.resolveRHS(w, rule, alt)
			if !ok {
				continue
			}
			p, err := newProduction(lhs, rhs)
			if err != nil {
				return nil, err
			}
			if !prods.append(p) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: fmt.Sprintf("%v → %v", strings.TrimSpace(rule.LHS), formatRHS(alt, b.config.emptyMarker)),
					Row:    rule.Row,
				})
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	startSym, _ := r.ToSymbol(strings.TrimSpace(b.Rules[0].LHS))
	gram := &Grammar{
		rules:         append([]RuleSpec{}, b.Rules...),
		symbolTable:   r,
		productionSet: prods,
		startSymbol:   startSym,
		emptyMarker:   b.config.emptyMarker,
	}
	tracer().Infof("grammar built: %d non-terminals, %d terminals, %d productions",
		len(gram.NonTerminals()), len(gram.Terminals()), prods.count())
	return gram, nil
}

func (b *GrammarBuilder) isValidLHS(lhs string) bool {
	if lhs == "" || lhs == b.config.emptyMarker || lhs == symbol.SymbolNameEOF {
		return false
	}
	if len(strings.Fields(lhs)) != 1 || strings.Contains(lhs, "|") {
		return false
	}
	return b.config.isNonTerminal(lhs)
}

func (b *GrammarBuilder) resolveRHS(w *symbol.SymbolTableWriter, rule RuleSpec, alt []string) ([]symbol.Symbol, bool) {
	ok := true
	rhs := make([]symbol.Symbol, 0, len(alt))
	for _, text := range alt {
		if text == symbol.SymbolNameEOF {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedSym,
				Detail: text,
				Row:    rule.Row,
			})
			ok = false
			continue
		}
		if b.config.isNonTerminal(text) {
			sym, found := w.Reader().ToSymbol(text)
			if !found || !sym.IsNonTerminal() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: text,
					Row:    rule.Row,
				})
				ok = false
				continue
			}
			rhs = append(rhs, sym)
			continue
		}
		sym, err := w.RegisterTerminalSymbol(text)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  err,
				Detail: text,
				Row:    rule.Row,
			})
			ok = false
			continue
		}
		rhs = append(rhs, sym)
	}
	return rhs, ok
}

// splitAlternatives splits an alternatives string into symbol sequences. The empty marker derives
// nothing, so it is dropped; an alternative consisting only of empty markers, or of nothing at all,
// becomes an empty sequence.
func splitAlternatives(alts string, emptyMarker string) [][]string {
	var seqs [][]string
	for _, alt := range strings.Split(alts, "|") {
		seq := []string{}
		for _, text := range strings.Fields(alt) {
			if text == emptyMarker {
				continue
			}
			seq = append(seq, text)
		}
		seqs = append(seqs, seq)
	}
	return seqs
}

func formatRHS(rhs []string, emptyMarker string) string {
	if len(rhs) == 0 {
		return emptyMarker
	}
	return strings.Join(rhs, " ")
}

// Production is a read-only view of a production.
type Production struct {
	Num int
	LHS string
	RHS []string

	emptyMarker string
}

func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 0
}

func (p *Production) String() string {
	return fmt.Sprintf("%v → %v", p.LHS, formatRHS(p.RHS, p.emptyMarker))
}

func (g *Grammar) toText(sym symbol.Symbol) string {
	text, ok := g.symbolTable.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

func (g *Grammar) viewProduction(prod *production) *Production {
	rhs := make([]string, 0, prod.rhsLen)
	for _, sym := range prod.rhs {
		rhs = append(rhs, g.toText(sym))
	}
	return &Production{
		Num:         prod.num.Int(),
		LHS:         g.toText(prod.lhs),
		RHS:         rhs,
		emptyMarker: g.emptyMarker,
	}
}

// Start returns the start symbol.
func (g *Grammar) Start() string {
	return g.toText(g.startSymbol)
}

func (g *Grammar) EmptyMarker() string {
	return g.emptyMarker
}

// Rules returns a copy of the rules the grammar was built from.
func (g *Grammar) Rules() []RuleSpec {
	return append([]RuleSpec{}, g.rules...)
}

// NonTerminals returns the non-terminals in the order of the rules.
func (g *Grammar) NonTerminals() []string {
	syms := g.symbolTable.NonTerminalSymbols()
	texts := make([]string, 0, len(syms))
	for _, sym := range syms {
		texts = append(texts, g.toText(sym))
	}
	return texts
}

// Terminals returns the terminals in the order they first appear. The end marker is not included.
func (g *Grammar) Terminals() []string {
	syms := g.symbolTable.TerminalSymbols()
	texts := make([]string, 0, len(syms))
	for _, sym := range syms {
		if sym.IsEOF() {
			continue
		}
		texts = append(texts, g.toText(sym))
	}
	return texts
}

func (g *Grammar) IsNonTerminal(text string) bool {
	sym, ok := g.symbolTable.ToSymbol(text)
	return ok && sym.IsNonTerminal()
}

func (g *Grammar) IsTerminal(text string) bool {
	sym, ok := g.symbolTable.ToSymbol(text)
	return ok && sym.IsTerminal() && !sym.IsEOF()
}

// Productions returns all productions in declaration order.
func (g *Grammar) Productions() []*Production {
	prods := g.productionSet.getAllProductions()
	views := make([]*Production, 0, len(prods))
	for _, prod := range prods {
		views = append(views, g.viewProduction(prod))
	}
	return views
}

// ProductionsOf returns the alternatives of a non-terminal in declaration order.
func (g *Grammar) ProductionsOf(lhs string) ([]*Production, bool) {
	sym, ok := g.symbolTable.ToSymbol(lhs)
	if !ok {
		return nil, false
	}
	prods, ok := g.productionSet.findByLHS(sym)
	if !ok {
		return nil, false
	}
	views := make([]*Production, 0, len(prods))
	for _, prod := range prods {
		views = append(views, g.viewProduction(prod))
	}
	return views, true
}

// Unreachable returns the non-terminals that no derivation from the start symbol uses.
func (g *Grammar) Unreachable() []string {
	reached := map[symbol.Symbol]struct{}{
		g.startSymbol: {},
	}
	queue := []symbol.Symbol{g.startSymbol}
	for len(queue) > 0 {
		lhs := queue[0]
		queue = queue[1:]
		prods, _ := g.productionSet.findByLHS(lhs)
		for _, prod := range prods {
			for _, sym := range prod.rhs {
				if !sym.IsNonTerminal() {
					continue
				}
				if _, ok := reached[sym]; ok {
					continue
				}
				reached[sym] = struct{}{}
				queue = append(queue, sym)
			}
		}
	}

	var unreachable []string
	for _, sym := range g.symbolTable.NonTerminalSymbols() {
		if _, ok := reached[sym]; ok {
			continue
		}
		unreachable = append(unreachable, g.toText(sym))
	}
	return unreachable
}

// String returns the grammar in the grammar file notation.
func (g *Grammar) String() string {
	var b strings.Builder
	for _, nonTerm := range g.symbolTable.NonTerminalSymbols() {
		prods, _ := g.productionSet.findByLHS(nonTerm)
		alts := make([]string, 0, len(prods))
		for _, prod := range prods {
			alts = append(alts, formatRHS(g.viewProduction(prod).RHS, g.emptyMarker))
		}
		fmt.Fprintf(&b, "%v -> %v ;\n", g.toText(nonTerm), strings.Join(alts, " | "))
	}
	return b.String()
}
