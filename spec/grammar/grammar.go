package grammar

import "fmt"

// CompiledGrammar is the portable form of an analysed grammar.
type CompiledGrammar struct {
	Name        string         `json:"name"`
	Fingerprint string         `json:"fingerprint"`
	EmptyMarker string         `json:"empty_marker"`
	Syntactic   *SyntacticSpec `json:"syntactic"`
	Report      *Report        `json:"report"`
}

// CompressionLevel* tell how the prediction table is stored.
const (
	CompressionLevelNone = 0
	CompressionLevelMin  = 1 // unique rows
	CompressionLevelMax  = 2 // unique rows overlaid by row displacement
)

// SyntacticSpec holds what a table-driven predictive parser needs. Symbols are referred to by their
// numbers: terminal numbers index Terminals, non-terminal numbers index NonTerminals, and number 0
// is unused in both. In Alternatives a positive value is a terminal and a negative value is a
// non-terminal.
type SyntacticSpec struct {
	CompressionLevel        int                 `json:"compression_level"`
	Table                   []int               `json:"table,omitempty"`
	CompressedTable         *UniqueEntriesTable `json:"compressed_table,omitempty"`
	StartSymbol             int                 `json:"start_symbol"`
	EOFSymbol               int                 `json:"eof_symbol"`
	Terminals               []string            `json:"terminals"`
	TerminalCount           int                 `json:"terminal_count"`
	NonTerminals            []string            `json:"non_terminals"`
	NonTerminalCount        int                 `json:"non_terminal_count"`
	LHSSymbols              []int               `json:"lhs_symbols"`
	AlternativeSymbolCounts []int               `json:"alternative_symbol_counts"`
	Alternatives            [][]int             `json:"alternatives"`
}

// Lookup returns the production number in the cell (nonTerm, term). 0 means the cell is empty.
func (s *SyntacticSpec) Lookup(nonTerm, term int) (int, error) {
	if nonTerm <= 0 || nonTerm >= s.NonTerminalCount || term <= 0 || term >= s.TerminalCount {
		return 0, fmt.Errorf("symbol numbers are out of range; non-terminal: %v, terminal: %v", nonTerm, term)
	}
	switch s.CompressionLevel {
	case CompressionLevelNone:
		return s.Table[nonTerm*s.TerminalCount+term], nil
	case CompressionLevelMin, CompressionLevelMax:
		return s.CompressedTable.lookup(nonTerm, term)
	}
	return 0, fmt.Errorf("unknown compression level: %v", s.CompressionLevel)
}

type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

func (t *RowDisplacementTable) lookup(row, col int) int {
	i := t.RowDisplacement[row] + col
	if i >= len(t.Bounds) || t.Bounds[i] != row {
		return t.EmptyValue
	}
	return t.Entries[i]
}

type UniqueEntriesTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []int                 `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

func (t *UniqueEntriesTable) lookup(row, col int) (int, error) {
	if row >= len(t.RowNums) || col >= t.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	rowNum := t.RowNums[row]
	if t.UniqueEntries != nil {
		return t.UniqueEntries.lookup(rowNum, col), nil
	}
	return t.UncompressedUniqueEntries[rowNum*t.OriginalColCount+col], nil
}

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Nullable  bool   `json:"nullable"`
	Reachable bool   `json:"reachable"`
}

type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

// SymbolSet is FIRST or FOLLOW of a non-terminal. Empty is only used by FIRST and EOF only by FOLLOW.
type SymbolSet struct {
	NonTerminal int   `json:"non_terminal"`
	Terminals   []int `json:"terminals"`
	Empty       bool  `json:"empty,omitempty"`
	EOF         bool  `json:"eof,omitempty"`
}

type Conflict struct {
	Kind               string `json:"kind"`
	NonTerminal        int    `json:"non_terminal"`
	Terminal           int    `json:"terminal"`
	AdoptedProduction  int    `json:"adopted_production"`
	RejectedProduction int    `json:"rejected_production"`
}

type Report struct {
	ConflictPolicy string         `json:"conflict_policy"`
	Terminals      []*Terminal    `json:"terminals"`
	NonTerminals   []*NonTerminal `json:"non_terminals"`
	Productions    []*Production  `json:"productions"`
	First          []*SymbolSet   `json:"first"`
	Follow         []*SymbolSet   `json:"follow"`
	Conflicts      []*Conflict    `json:"conflicts"`
}
