package spec

import (
	"io"
	"strings"

	verr "github.com/nihei9/ll1kit/error"
	"github.com/nihei9/ll1kit/grammar"
)

type RootNode struct {
	Productions []*ProductionNode
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

// AlternativeNode is one alternative. An alternative with no symbols derives the empty string.
type AlternativeNode struct {
	Symbols []string
	Pos     Position
}

// RuleSpecs converts the tree into the rules grammar.NewGrammar takes.
func (n *RootNode) RuleSpecs() []grammar.RuleSpec {
	rules := make([]grammar.RuleSpec, 0, len(n.Productions))
	for _, prod := range n.Productions {
		alts := make([]string, 0, len(prod.RHS))
		for _, alt := range prod.RHS {
			alts = append(alts, strings.Join(alt.Symbols, " "))
		}
		rules = append(rules, grammar.RuleSpec{
			LHS:          prod.LHS,
			Alternatives: strings.Join(alts, " | "),
			Row:          prod.Pos.Row,
		})
	}
	return rules
}

func raiseSyntaxError(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

// Parse parses a grammar file. A syntax error is returned as *verr.SpecError whose cause is a *SyntaxError.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("grammar file parsed: %v productions", len(root.Productions))
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			switch e := err.(type) {
			case *verr.SpecError:
				retErr = verr.SpecErrors{e}
			case error:
				retErr = e
			default:
				panic(err)
			}
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	prod := p.parseProduction()
	if prod == nil {
		raiseSyntaxError(p.lastTok.pos, synErrNoProduction)
	}
	root := &RootNode{
		Productions: []*ProductionNode{prod},
	}
	for {
		prod := p.parseProduction()
		if prod == nil {
			break
		}
		root.Productions = append(root.Productions, prod)
	}
	return root
}

func (p *parser) parseProduction() *ProductionNode {
	if p.consume(tokenKindEOF) {
		return nil
	}
	if !p.consume(tokenKindSymbol) {
		raiseSyntaxError(p.peekPos(), synErrNoProductionName)
	}
	lhs := p.lastTok.text
	lhsPos := p.lastTok.pos
	if !p.consume(tokenKindArrow) {
		raiseSyntaxError(p.peekPos(), synErrNoArrow)
	}
	alt := p.parseAlternative()
	rhs := []*AlternativeNode{alt}
	for {
		if !p.consume(tokenKindOr) {
			break
		}
		alt := p.parseAlternative()
		rhs = append(rhs, alt)
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.peekPos(), synErrNoSemicolon)
	}
	return &ProductionNode{
		LHS: lhs,
		RHS: rhs,
		Pos: lhsPos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Symbols: []string{},
		Pos:     p.peekPos(),
	}
	for p.consume(tokenKindSymbol) {
		alt.Symbols = append(alt.Symbols, p.lastTok.text)
	}
	return alt
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos, synErrInvalidToken)
	}
	if tok.kind == expected {
		p.peekedTok = nil
		return true
	}
	p.lastTok = nil

	return false
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) peekPos() Position {
	return p.peek().pos
}
