package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/nihei9/ll1kit/compressor"
	"github.com/nihei9/ll1kit/grammar/symbol"
	spec "github.com/nihei9/ll1kit/spec/grammar"
)

type analysisConfig struct {
	policy ConflictPolicy
}

type AnalysisOption func(config *analysisConfig)

// WithConflictPolicy sets how conflicting table cells are resolved. The default is ConflictPolicyFirstWins.
func WithConflictPolicy(policy ConflictPolicy) AnalysisOption {
	return func(config *analysisConfig) {
		config.policy = policy
	}
}

// Analysis bundles a grammar with its FIRST sets, FOLLOW sets, and parsing table.
type Analysis struct {
	Grammar *Grammar
	First   *FirstTable
	Follow  *FollowTable
	Table   *ParseTable
	Policy  ConflictPolicy
}

// Analyze computes FIRST, FOLLOW, and the LL(1) parsing table of a grammar. Under ConflictPolicyError,
// a conflicting grammar makes Analyze return a *ConflictError.
func Analyze(gram *Grammar, opts ...AnalysisOption) (*Analysis, error) {
	config := &analysisConfig{
		policy: ConflictPolicyFirstWins,
	}
	for _, opt := range opts {
		opt(config)
	}

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, err
	}

	follow, err := genFollowSet(gram.productionSet, first, gram.symbolTable.NonTerminalSymbols())
	if err != nil {
		return nil, err
	}

	b := &ll1TableBuilder{
		gram:   gram,
		first:  first,
		follow: follow,
		policy: config.policy,
	}
	tab, err := b.build()
	if err != nil {
		return nil, err
	}
	tracer().Infof("parsing table built: %d entries, %d conflicts (policy: %v)", len(tab.Entries()), len(tab.conflicts), config.policy)
	if config.policy == ConflictPolicyError && tab.HasConflicts() {
		return nil, &ConflictError{
			Conflicts: tab.Conflicts(),
		}
	}

	return &Analysis{
		Grammar: gram,
		First: &FirstTable{
			first: first,
			gram:  gram,
		},
		Follow: &FollowTable{
			follow: follow,
			gram:   gram,
		},
		Table:  tab,
		Policy: config.policy,
	}, nil
}

// IsLL1 reports whether no table cell was claimed by more than one production.
func (a *Analysis) IsLL1() bool {
	return !a.Table.HasConflicts()
}

type compileConfig struct {
	compressionLevel int
}

type CompileOption func(config *compileConfig)

// CompressionLevel sets how the prediction table is stored in a compiled grammar. See
// spec.CompressionLevelNone, spec.CompressionLevelMin, and spec.CompressionLevelMax.
func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		config.compressionLevel = lv
	}
}

// Compile converts the analysis into its portable form.
func (a *Analysis) Compile(name string, opts ...CompileOption) (*spec.CompiledGrammar, error) {
	config := &compileConfig{
		compressionLevel: spec.CompressionLevelNone,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.compressionLevel < spec.CompressionLevelNone || config.compressionLevel > spec.CompressionLevelMax {
		return nil, fmt.Errorf("compression level must be %v..%v; got: %v", spec.CompressionLevelNone, spec.CompressionLevelMax, config.compressionLevel)
	}

	gram := a.Grammar
	r := gram.symbolTable

	fingerprint, err := genFingerprint(gram)
	if err != nil {
		return nil, err
	}

	terms := r.TerminalTexts()
	nonTerms, err := r.NonTerminalTexts()
	if err != nil {
		return nil, err
	}

	prods := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(prods)+1)
	altSymCounts := make([]int, len(prods)+1)
	alts := make([][]int, len(prods)+1)
	for _, p := range prods {
		lhsSyms[p.num] = p.lhs.Num().Int()
		altSymCounts[p.num] = p.rhsLen
		alts[p.num] = encodeRHS(p.rhs)
	}

	table := make([]int, len(a.Table.entries))
	for i, e := range a.Table.entries {
		table[i] = e.Int()
	}

	syntactic := &spec.SyntacticSpec{
		CompressionLevel:        config.compressionLevel,
		StartSymbol:             gram.startSymbol.Num().Int(),
		EOFSymbol:               symbol.SymbolEOF.Num().Int(),
		Terminals:               append([]string{}, terms...),
		TerminalCount:           a.Table.terminalCount,
		NonTerminals:            append([]string{}, nonTerms...),
		NonTerminalCount:        a.Table.nonTerminalCount,
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Alternatives:            alts,
	}
	switch config.compressionLevel {
	case spec.CompressionLevelNone:
		syntactic.Table = table
	case spec.CompressionLevelMin:
		syntactic.CompressedTable, err = compressTableLv1(table, a.Table.terminalCount)
	case spec.CompressionLevelMax:
		syntactic.CompressedTable, err = compressTableLv2(table, a.Table.terminalCount)
	}
	if err != nil {
		return nil, err
	}

	report, err := a.genReport()
	if err != nil {
		return nil, err
	}

	tracer().Debugf("grammar compiled: %v (fingerprint: %v, compression level: %v)", name, fingerprint, config.compressionLevel)

	return &spec.CompiledGrammar{
		Name:        name,
		Fingerprint: fingerprint,
		EmptyMarker: gram.emptyMarker,
		Syntactic:   syntactic,
		Report:      report,
	}, nil
}

type fingerprintRule struct {
	LHS          string
	Alternatives []string
}

// genFingerprint hashes the productions of a grammar. The hash ignores the layout of the source,
// so the same grammar written differently has the same fingerprint.
func genFingerprint(gram *Grammar) (string, error) {
	var rules []fingerprintRule
	for _, nonTerm := range gram.NonTerminals() {
		prods, _ := gram.ProductionsOf(nonTerm)
		rule := fingerprintRule{
			LHS: nonTerm,
		}
		for _, prod := range prods {
			rule.Alternatives = append(rule.Alternatives, formatRHS(prod.RHS, gram.emptyMarker))
		}
		rules = append(rules, rule)
	}
	return structhash.Hash(rules, 1)
}

// encodeRHS encodes terminals as positive numbers and non-terminals as negative numbers.
func encodeRHS(rhs []symbol.Symbol) []int {
	enc := make([]int, len(rhs))
	for i, sym := range rhs {
		if sym.IsTerminal() {
			enc[i] = sym.Num().Int()
		} else {
			enc[i] = -sym.Num().Int()
		}
	}
	return enc
}

func compressTableLv2(table []int, colCount int) (*spec.UniqueEntriesTable, error) {
	ueTab := compressor.NewUniqueEntriesTable()
	{
		orig, err := compressor.NewOriginalTable(table, colCount)
		if err != nil {
			return nil, err
		}
		err = ueTab.Compress(orig)
		if err != nil {
			return nil, err
		}
	}

	rdTab := compressor.NewRowDisplacementTable(productionNumNil.Int())
	{
		orig, err := compressor.NewOriginalTable(ueTab.UniqueEntries, ueTab.OriginalColCount)
		if err != nil {
			return nil, err
		}
		err = rdTab.Compress(orig)
		if err != nil {
			return nil, err
		}
	}

	return &spec.UniqueEntriesTable{
		UniqueEntries: &spec.RowDisplacementTable{
			OriginalRowCount: rdTab.OriginalRowCount,
			OriginalColCount: rdTab.OriginalColCount,
			EmptyValue:       productionNumNil.Int(),
			Entries:          rdTab.Entries,
			Bounds:           rdTab.Bounds,
			RowDisplacement:  rdTab.RowDisplacement,
		},
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}, nil
}

func compressTableLv1(table []int, colCount int) (*spec.UniqueEntriesTable, error) {
	ueTab := compressor.NewUniqueEntriesTable()
	{
		orig, err := compressor.NewOriginalTable(table, colCount)
		if err != nil {
			return nil, err
		}
		err = ueTab.Compress(orig)
		if err != nil {
			return nil, err
		}
	}

	return &spec.UniqueEntriesTable{
		UncompressedUniqueEntries: ueTab.UniqueEntries,
		RowNums:                   ueTab.RowNums,
		OriginalRowCount:          ueTab.OriginalRowCount,
		OriginalColCount:          ueTab.OriginalColCount,
	}, nil
}

func (a *Analysis) genReport() (*spec.Report, error) {
	gram := a.Grammar
	r := gram.symbolTable

	var terms []*spec.Terminal
	for _, sym := range r.TerminalSymbols() {
		terms = append(terms, &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   gram.toText(sym),
		})
	}

	unreachable := map[string]struct{}{}
	for _, text := range gram.Unreachable() {
		unreachable[text] = struct{}{}
	}

	var nonTerms []*spec.NonTerminal
	var first []*spec.SymbolSet
	var follow []*spec.SymbolSet
	for _, sym := range r.NonTerminalSymbols() {
		text := gram.toText(sym)
		_, isUnreachable := unreachable[text]

		fst := a.First.first.findBySymbol(sym)
		if fst == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		flw, err := a.Follow.follow.find(sym)
		if err != nil {
			return nil, err
		}

		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number:    sym.Num().Int(),
			Name:      text,
			Nullable:  fst.empty,
			Reachable: !isUnreachable,
		})
		first = append(first, &spec.SymbolSet{
			NonTerminal: sym.Num().Int(),
			Terminals:   symbolNums(fst.terminals()),
			Empty:       fst.empty,
		})
		follow = append(follow, &spec.SymbolSet{
			NonTerminal: sym.Num().Int(),
			Terminals:   symbolNums(flw.terminalSymbols()),
			EOF:         flw.eof,
		})
	}

	var prods []*spec.Production
	for _, p := range gram.productionSet.getAllProductions() {
		prods = append(prods, &spec.Production{
			Number: p.num.Int(),
			LHS:    p.lhs.Num().Int(),
			RHS:    encodeRHS(p.rhs),
		})
	}

	var conflicts []*spec.Conflict
	for _, c := range a.Table.conflicts {
		nt, _ := r.ToSymbol(c.NonTerminal)
		t, _ := r.ToSymbol(c.Terminal)
		conflicts = append(conflicts, &spec.Conflict{
			Kind:               string(c.Kind),
			NonTerminal:        nt.Num().Int(),
			Terminal:           t.Num().Int(),
			AdoptedProduction:  c.Adopted.Num,
			RejectedProduction: c.Rejected.Num,
		})
	}

	return &spec.Report{
		ConflictPolicy: a.Policy.String(),
		Terminals:      terms,
		NonTerminals:   nonTerms,
		Productions:    prods,
		First:          first,
		Follow:         follow,
		Conflicts:      conflicts,
	}, nil
}

func symbolNums(syms []symbol.Symbol) []int {
	nums := make([]int, 0, len(syms))
	for _, sym := range syms {
		nums = append(nums, sym.Num().Int())
	}
	return nums
}
