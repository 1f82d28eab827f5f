package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/ll1kit/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a compiled grammar in a readable format",
		Example: `  ll1kit show grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}

	err = writeReport(os.Stdout, cgram)
	if err != nil {
		return err
	}

	return writeCompiledTable(os.Stdout, cgram.Syntactic)
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the compiled grammar %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(d, cgram)
	if err != nil {
		return nil, err
	}
	if cgram.Syntactic == nil || cgram.Report == nil {
		return nil, fmt.Errorf("%s is not a compiled grammar", path)
	}

	return cgram, nil
}

const reportTemplate = `# {{ .Name }}

Fingerprint: {{ .Fingerprint }}
Conflict policy: {{ .Report.ConflictPolicy }}

# Conflicts

{{ printConflictSummary .Report }}
{{ range .Report.Conflicts -}}
{{ printConflict . }}
{{ end }}
# Terminals

{{ range .Report.Terminals -}}
{{ printTerminal . }}
{{ end }}
# Non-terminals

{{ range .Report.NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
# Productions

{{ range .Report.Productions -}}
{{ printProduction . }}
{{ end }}
# FIRST

{{ range .Report.First -}}
{{ printSet . }}
{{ end }}
# FOLLOW

{{ range .Report.Follow -}}
{{ printSet . }}
{{ end }}`

func writeReport(w io.Writer, cgram *spec.CompiledGrammar) error {
	s := cgram.Syntactic

	termName := func(sym int) string {
		if sym <= 0 || sym >= len(s.Terminals) {
			return fmt.Sprintf("<terminal %v>", sym)
		}
		return s.Terminals[sym]
	}

	nonTermName := func(sym int) string {
		if sym <= 0 || sym >= len(s.NonTerminals) {
			return fmt.Sprintf("<non-terminal %v>", sym)
		}
		return s.NonTerminals[sym]
	}

	formatRHS := func(rhs []int) string {
		if len(rhs) == 0 {
			return cgram.EmptyMarker
		}
		var b strings.Builder
		for i, sym := range rhs {
			if i > 0 {
				fmt.Fprintf(&b, " ")
			}
			if sym > 0 {
				fmt.Fprintf(&b, "%v", termName(sym))
			} else {
				fmt.Fprintf(&b, "%v", nonTermName(-sym))
			}
		}
		return b.String()
	}

	formatProd := func(num int) string {
		for _, prod := range cgram.Report.Productions {
			if prod.Number == num {
				return fmt.Sprintf("%v → %v", nonTermName(prod.LHS), formatRHS(prod.RHS))
			}
		}
		return fmt.Sprintf("<production %v>", num)
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			switch len(report.Conflicts) {
			case 0:
				return "No conflict"
			case 1:
				return "1 conflict occurred."
			}
			return fmt.Sprintf("%v conflicts occurred.", len(report.Conflicts))
		},
		"printConflict": func(c *spec.Conflict) string {
			return fmt.Sprintf("%v conflict at M[%v, %v]: %v adopted, %v rejected",
				c.Kind, nonTermName(c.NonTerminal), termName(c.Terminal), formatProd(c.AdoptedProduction), formatProd(c.RejectedProduction))
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printNonTerminal": func(nonTerm *spec.NonTerminal) string {
			var attrs []string
			if nonTerm.Nullable {
				attrs = append(attrs, "nullable")
			}
			if !nonTerm.Reachable {
				attrs = append(attrs, "unreachable")
			}
			if len(attrs) == 0 {
				return fmt.Sprintf("%4v %v", nonTerm.Number, nonTerm.Name)
			}
			return fmt.Sprintf("%4v %v (%v)", nonTerm.Number, nonTerm.Name, strings.Join(attrs, ", "))
		},
		"printProduction": func(prod *spec.Production) string {
			return fmt.Sprintf("%4v %v → %v", prod.Number, nonTermName(prod.LHS), formatRHS(prod.RHS))
		},
		"printSet": func(set *spec.SymbolSet) string {
			var texts []string
			for _, sym := range set.Terminals {
				texts = append(texts, termName(sym))
			}
			if set.Empty {
				texts = append(texts, cgram.EmptyMarker)
			}
			if set.EOF {
				texts = append(texts, termName(s.EOFSymbol))
			}
			return fmt.Sprintf("%v: %v", nonTermName(set.NonTerminal), formatSet(texts))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, cgram)
}

// writeCompiledTable prints production numbers looked up through the compiled (possibly compressed)
// table.
func writeCompiledTable(w io.Writer, s *spec.SyntacticSpec) error {
	var cols []int
	for term := 1; term < s.TerminalCount; term++ {
		if term == s.EOFSymbol {
			continue
		}
		cols = append(cols, term)
	}
	cols = append(cols, s.EOFSymbol)

	header := []string{"M"}
	for _, term := range cols {
		header = append(header, s.Terminals[term])
	}
	data := pterm.TableData{header}
	for nonTerm := 1; nonTerm < s.NonTerminalCount; nonTerm++ {
		row := []string{s.NonTerminals[nonTerm]}
		for _, term := range cols {
			num, err := s.Lookup(nonTerm, term)
			if err != nil {
				return err
			}
			if num == 0 {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%v", num))
		}
		data = append(data, row)
	}
	return writeTable(w, data)
}
