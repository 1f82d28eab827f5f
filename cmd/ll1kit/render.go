package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/ll1kit/grammar"
	"github.com/pterm/pterm"
)

// writeGrammar prints the rules as a tree: one node per non-terminal and one leaf per alternative.
func writeGrammar(w io.Writer, gram *grammar.Grammar) error {
	ll := pterm.LeveledList{}
	for _, nonTerm := range gram.NonTerminals() {
		ll = append(ll, pterm.LeveledListItem{
			Level: 0,
			Text:  nonTerm,
		})
		prods, _ := gram.ProductionsOf(nonTerm)
		for _, prod := range prods {
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("%v: %v", prod.Num, formatAlternative(gram, prod)),
			})
		}
	}
	s, err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func formatAlternative(gram *grammar.Grammar, prod *grammar.Production) string {
	if prod.IsEmpty() {
		return gram.EmptyMarker()
	}
	return strings.Join(prod.RHS, " ")
}

func formatSet(texts []string) string {
	return "{ " + strings.Join(texts, ", ") + " }"
}

// writeFirstFollow prints FIRST and FOLLOW of every non-terminal.
func writeFirstFollow(w io.Writer, a *grammar.Analysis) error {
	data := pterm.TableData{
		{"Non-terminal", "Nullable", "FIRST", "FOLLOW"},
	}
	for _, nonTerm := range a.Grammar.NonTerminals() {
		fst, ok := a.First.First(nonTerm)
		if !ok {
			return fmt.Errorf("FIRST(%v) was not found", nonTerm)
		}
		flw, ok := a.Follow.Follow(nonTerm)
		if !ok {
			return fmt.Errorf("FOLLOW(%v) was not found", nonTerm)
		}
		nullable := "no"
		if a.First.Empty(nonTerm) {
			nullable = "yes"
		}
		data = append(data, []string{nonTerm, nullable, formatSet(fst), formatSet(flw)})
	}
	return writeTable(w, data)
}

// writeFirst and writeFollow print a single column of writeFirstFollow for the given symbols.
func writeFirst(w io.Writer, a *grammar.Analysis, texts []string) error {
	if len(texts) == 0 {
		texts = a.Grammar.NonTerminals()
	}
	data := pterm.TableData{
		{"Symbol", "FIRST"},
	}
	for _, text := range texts {
		fst, ok := a.First.First(text)
		if !ok {
			return fmt.Errorf("unknown symbol: %v", text)
		}
		data = append(data, []string{text, formatSet(fst)})
	}
	return writeTable(w, data)
}

func writeFollow(w io.Writer, a *grammar.Analysis, texts []string) error {
	if len(texts) == 0 {
		texts = a.Grammar.NonTerminals()
	}
	data := pterm.TableData{
		{"Non-terminal", "FOLLOW"},
	}
	for _, text := range texts {
		flw, ok := a.Follow.Follow(text)
		if !ok {
			return fmt.Errorf("%v is not a non-terminal", text)
		}
		data = append(data, []string{text, formatSet(flw)})
	}
	return writeTable(w, data)
}

// writeParseTable prints the prediction table with one row per non-terminal and one column per
// terminal. The end marker is the last column.
func writeParseTable(w io.Writer, a *grammar.Analysis) error {
	cols := append(a.Grammar.Terminals(), "$")
	header := append([]string{"M"}, cols...)
	data := pterm.TableData{header}
	for _, nonTerm := range a.Grammar.NonTerminals() {
		row := []string{nonTerm}
		for _, term := range cols {
			prod, ok := a.Table.Production(nonTerm, term)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%v → %v", nonTerm, formatAlternative(a.Grammar, prod)))
		}
		data = append(data, row)
	}
	return writeTable(w, data)
}

func writeConflicts(w io.Writer, a *grammar.Analysis) error {
	conflicts := a.Table.Conflicts()
	switch len(conflicts) {
	case 0:
		_, err := fmt.Fprintf(w, "No conflict; the grammar is LL(1)\n")
		return err
	case 1:
		fmt.Fprintf(w, "1 conflict occurred (policy: %v)\n", a.Policy)
	default:
		fmt.Fprintf(w, "%v conflicts occurred (policy: %v)\n", len(conflicts), a.Policy)
	}
	for _, c := range conflicts {
		_, err := fmt.Fprintf(w, "    %v\n", c)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
