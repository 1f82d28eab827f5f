/*
Package spec reads grammar files.

A grammar file is a list of rules. Each rule is a non-terminal, an arrow, and alternatives separated
by `|`, terminated by a semicolon. An empty alternative, or one written as `ε`, derives the empty string.

	// expressions
	E  -> T E' ;
	E' -> + T E' | ε ;
	T  -> id | ( E ) ;

Symbols are separated by white spaces, so `(` and `E` must not touch. `->`, `|`, and `;` need no
white spaces around them, and `->` is never a part of a symbol.
*/
package spec

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'll1kit.spec'.
func tracer() tracing.Trace {
	return tracing.Select("ll1kit.spec")
}
