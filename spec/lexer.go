package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindSymbol    = tokenKind("symbol")
	tokenKindArrow     = tokenKind("->")
	tokenKindOr        = tokenKind("|")
	tokenKindSemicolon = tokenKind(";")
	tokenKindEOF       = tokenKind("eof")
	tokenKindInvalid   = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newSymbolNameToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindSymbol,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// The kinds are listed in priority order; when two kinds match the same length, the earlier one wins.
// This is what keeps `->` and `//...` from being read as symbols.
var lexEntries = []struct {
	kind    string
	pattern string
}{
	{kind: "white_space", pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`},
	{kind: "line_comment", pattern: `//[^\u{000A}]*`},
	{kind: "arrow", pattern: `->`},
	{kind: "or", pattern: `\|`},
	{kind: "semicolon", pattern: `;`},
	{kind: "symbol", pattern: `[^\u{0009}\u{000A}\u{000D}\u{0020}|;]+`},
}

var (
	lexSpecOnce sync.Once
	lexSpec     *mlspec.CompiledLexSpec
	lexSpecErr  error
)

func compiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	lexSpecOnce.Do(func() {
		entries := make([]*mlspec.LexEntry, 0, len(lexEntries))
		for _, e := range lexEntries {
			entries = append(entries, &mlspec.LexEntry{
				Kind:    mlspec.LexKindName(e.kind),
				Pattern: mlspec.LexPattern(e.pattern),
			})
		}
		s, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "ll1kit_grammar",
			Entries: entries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cErr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cErr.Kind, cErr.Cause)
				}
				lexSpecErr = fmt.Errorf("failed to compile the lexical specification of grammar files: %v", b.String())
				return
			}
			lexSpecErr = err
			return
		}
		tracer().Debugf("lexical specification compiled: %v kinds", len(s.KindNames))
		lexSpec = s
	})
	return lexSpec, lexSpecErr
}

type lexer struct {
	s       *mlspec.CompiledLexSpec
	d       *mldriver.Lexer
	pending []*token
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}

	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		pos := newPosition(tok.Row+1, tok.Col+1)
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), pos), nil
		}
		if tok.EOF {
			return newEOFToken(pos), nil
		}
		switch l.s.KindNames[tok.KindID] {
		case "white_space":
			continue
		case "line_comment":
			continue
		}

		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	switch l.s.KindNames[tok.KindID] {
	case "arrow":
		return newSymbolToken(tokenKindArrow, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case "symbol":
		text := string(tok.Lexeme)
		if strings.Contains(text, "->") {
			toks := splitArrows(text, pos)
			l.pending = toks[1:]
			return toks[0], nil
		}
		return newSymbolNameToken(text, pos), nil
	default:
		return newInvalidToken(string(tok.Lexeme), pos), nil
	}
}

// splitArrows splits a symbol lexeme like `A->a` into symbols and arrows. `->` is never a part of
// a symbol, even when no white space separates it from its neighbours.
func splitArrows(text string, pos Position) []*token {
	var toks []*token
	col := pos.Col
	parts := strings.Split(text, "->")
	for i, part := range parts {
		if part != "" {
			toks = append(toks, newSymbolNameToken(part, newPosition(pos.Row, col)))
			col += utf8.RuneCountInString(part)
		}
		if i < len(parts)-1 {
			toks = append(toks, newSymbolToken(tokenKindArrow, newPosition(pos.Row, col)))
			col += len("->")
		}
	}
	return toks
}
