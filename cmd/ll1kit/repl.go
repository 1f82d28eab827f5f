package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/ll1kit/grammar"
	"github.com/nihei9/ll1kit/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	policy *string
	init   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build up a grammar interactively and inspect its analysis",
		Example: `  ll1kit repl
  ll1kit repl --init grammar.ll1`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	replFlags.policy = cmd.Flags().StringP("policy", "p", "first", "conflict policy [first|last|error]")
	replFlags.init = cmd.Flags().String("init", "", "grammar file loaded on start-up")
	rootCmd.AddCommand(cmd)
}

const (
	promptRule         = "ll1kit> "
	promptContinuation = "....... "
)

func runREPL(cmd *cobra.Command, args []string) error {
	policy, err := grammar.ParseConflictPolicy(*replFlags.policy)
	if err != nil {
		return err
	}
	s := newSession(os.Stdout, policy)
	if *replFlags.init != "" {
		err := s.load(*replFlags.init)
		if err != nil {
			return err
		}
	}

	rl, err := readline.New(promptRule)
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("Enter rules like `A -> a B | ε ;`. Type :help for commands, quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil {
			// io.EOF or readline.ErrInterrupt
			tracer().Debugf("leaving the REPL: %v", err)
			return nil
		}
		quit, err := s.eval(line)
		if err != nil {
			pterm.Error.Println(err)
		}
		if quit {
			return nil
		}
		if s.pending.Len() > 0 {
			rl.SetPrompt(promptContinuation)
		} else {
			rl.SetPrompt(promptRule)
		}
	}
}

var errQuit = errors.New("quit")

// session holds the rules entered so far. The grammar is rebuilt and analysed whenever a command
// needs it, so rules may refer to non-terminals defined later.
type session struct {
	w        io.Writer
	policy   grammar.ConflictPolicy
	rules    []grammar.RuleSpec
	pending  strings.Builder
	analysis *grammar.Analysis
}

func newSession(w io.Writer, policy grammar.ConflictPolicy) *session {
	return &session{
		w:      w,
		policy: policy,
	}
}

// eval handles one line of input. A line starting with `:` is a command; anything else is a part of
// rules, which are accepted once a `;` terminates them.
func (s *session) eval(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if s.pending.Len() == 0 {
		if trimmed == "" {
			return false, nil
		}
		if strings.HasPrefix(trimmed, ":") {
			err := s.command(strings.Fields(trimmed[1:]))
			if err == errQuit {
				return true, nil
			}
			return false, err
		}
	}

	s.pending.WriteString(line)
	s.pending.WriteString("\n")
	if !strings.HasSuffix(trimmed, ";") {
		return false, nil
	}
	src := s.pending.String()
	s.pending.Reset()
	return false, s.addRules(strings.NewReader(src))
}

func (s *session) addRules(src io.Reader) error {
	ast, err := spec.Parse(src)
	if err != nil {
		return err
	}
	for _, rule := range ast.RuleSpecs() {
		rule.Row = len(s.rules) + 1
		s.rules = append(s.rules, rule)
		tracer().Debugf("rule added: %v -> %v", rule.LHS, rule.Alternatives)
	}
	s.analysis = nil
	return nil
}

func (s *session) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()
	return s.addRules(f)
}

func (s *session) analyze() (*grammar.Analysis, error) {
	if s.analysis != nil {
		return s.analysis, nil
	}
	if len(s.rules) == 0 {
		return nil, fmt.Errorf("no rules yet")
	}
	gram, err := grammar.NewGrammar(s.rules)
	if err != nil {
		return nil, err
	}
	a, err := grammar.Analyze(gram, grammar.WithConflictPolicy(s.policy))
	if err != nil {
		return nil, err
	}
	s.analysis = a
	return a, nil
}

const replHelp = `Rules:
    A -> a B | ε ;    add rules; a rule may span lines until ';'
Commands:
    :grammar          print the rules
    :first [symbol…]  print FIRST of symbols (default: every non-terminal)
    :follow [symbol…] print FOLLOW of non-terminals (default: every non-terminal)
    :table            print the prediction table
    :conflicts        print the conflicts of the table
    :policy [policy]  print or set the conflict policy [first|last|error]
    :load path        add the rules of a grammar file
    :reset            forget every rule
    :help             print this help
    :quit             leave`

func (s *session) command(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("a command is missing; type :help")
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		_, err := fmt.Fprintln(s.w, replHelp)
		return err
	case "quit", "q":
		return errQuit
	case "reset":
		s.rules = nil
		s.analysis = nil
		return nil
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: :load path")
		}
		return s.load(args[0])
	case "policy":
		if len(args) == 0 {
			_, err := fmt.Fprintln(s.w, s.policy)
			return err
		}
		p, err := grammar.ParseConflictPolicy(args[0])
		if err != nil {
			return err
		}
		s.policy = p
		s.analysis = nil
		return nil
	}

	write, ok := analysisCommands[cmd]
	if !ok {
		return fmt.Errorf("unknown command: :%v; type :help", cmd)
	}
	a, err := s.analyze()
	if err != nil {
		return err
	}
	return write(s.w, a, args)
}

var analysisCommands = map[string]func(w io.Writer, a *grammar.Analysis, args []string) error{
	"grammar": func(w io.Writer, a *grammar.Analysis, args []string) error {
		return writeGrammar(w, a.Grammar)
	},
	"first":  writeFirst,
	"follow": writeFollow,
	"table": func(w io.Writer, a *grammar.Analysis, args []string) error {
		return writeParseTable(w, a)
	},
	"conflicts": func(w io.Writer, a *grammar.Analysis, args []string) error {
		return writeConflicts(w, a)
	},
}
