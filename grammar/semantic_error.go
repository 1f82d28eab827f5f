package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrInvalidLHS          = newSemanticError("the LHS of a rule must be a non-terminal symbol")
	semErrReservedSym         = newSemanticError("the end marker cannot appear in a production")
	semErrDuplicateProduction = newSemanticError("duplicate production")
)
